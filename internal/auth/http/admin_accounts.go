package http

import (
	"errors"
	"net/http"

	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/authapi"
	"github.com/tradutor-app/auth/pkg/httpx"
	"github.com/tradutor-app/auth/pkg/idx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

type AdminAccountsHandler struct {
	AccountService *service.AccountService
}

// HandleGet godoc
//
//	@Summary		Get Account Endpoint (admin)
//	@Description	Look up any account by id. Requires the admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account ID"
//	@Success		200	{object}	authapi.UserInfoResponse	"id, email, name, role, active"
//	@Failure		401	{object}	authapi.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	authapi.ErrorResponse		"error, error_description"
//	@Router			/v1/admin/accounts/{id} [get].
func (h *AdminAccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// A malformed id cannot name an account, so it gets the same 404 as an
	// unknown one.
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "no account with this id")
		return
	}

	account, err := h.AccountService.GetAccountByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "no account with this id")
			return
		}
		log.Error("failed to load account", "err", err)
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

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// HandleSetActive godoc
//
//	@Summary		Set Account Active Endpoint (admin)
//	@Description	Enable or disable an account. Disabled accounts cannot log in or refresh.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID"
//	@Param			request	body		object					true	"active flag"
//	@Success		200		{object}	authapi.MessageResponse	"message"
//	@Failure		401		{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	authapi.ErrorResponse	"error, error_description"
//	@Router			/v1/admin/accounts/{id}/active [put].
func (h *AdminAccountsHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "no account with this id")
		return
	}

	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.AccountService.SetActive(ctx, id.String(), *req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "no account with this id")
			return
		}
		log.Error("failed to update account active flag", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{Message: "account updated"})
}
