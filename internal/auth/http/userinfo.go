package http

import (
	"net/http"

	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/pkg/authapi"
	"github.com/tradutor-app/auth/pkg/httpx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

type UserInfoHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		User Info Endpoint
//	@Description	Returns the account behind the presented access token
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authapi.UserInfoResponse	"id, email, name, role, active"
//	@Failure		401	{object}	authapi.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	authapi.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subject := httpx.SubjectFromContext(ctx)
	if subject == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	account, err := h.AccountService.GetAccountByID(ctx, subject)
	if err != nil {
		log.Warn("failed to load account", "account_id", subject, "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.UserInfoResponse{
		ID:     account.ID,
		Email:  account.Email,
		Name:   account.Name,
		Role:   account.Role,
		Active: account.Active,
	})
}
