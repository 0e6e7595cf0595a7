package http

import (
	"errors"
	"net/http"

	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/pkg/authapi"
	"github.com/tradutor-app/auth/pkg/httpx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a local account with an email, display name and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.RegisterRequest				true	"Registration details"
//	@Success		201		{object}	authapi.RegisterResponse			"id, email, name, role"
//	@Failure		400		{object}	authapi.ValidationErrorResponse		"code, message, details"
//	@Failure		409		{object}	authapi.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	authapi.ErrorResponse				"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.AccountService.Register(ctx, req.Email, req.Name, req.Password, "")
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			authapi.ErrEmailTaken.WriteError(w)
			return
		}
		log.Error("failed to register account", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.RegisterResponse{
		ID:    account.ID,
		Email: account.Email,
		Name:  account.Name,
		Role:  account.Role,
	})
}
