package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tradutor-app/auth/internal/auth/mail"
	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/pkg/authapi"
	"github.com/tradutor-app/auth/pkg/httpx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

// forgotPasswordMessage is returned for every forgot-password request, so
// the response cannot be used to probe which emails are registered.
const forgotPasswordMessage = "If that email is registered, a password reset link has been sent."

type ForgotPasswordHandler struct {
	AccountService *service.AccountService
	ResetService   *service.ResetService

	Mailer mail.Mailer

	// ResetURL is the frontend page that collects the new password. The
	// reset secret is appended as a query parameter.
	ResetURL string

	Logger *slog.Logger
}

// ServeHTTP godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Start a password reset. Always returns the same message whether or not the email is registered.
//	@Description	The reset link is delivered out of band and expires after a short window.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	authapi.MessageResponse			"message"
//	@Failure		400		{object}	authapi.ValidationErrorResponse	"code, message, details"
//	@Router			/v1/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// The response below is written no matter what happens from here on.
	// Failures are logged, never surfaced.
	account, err := h.AccountService.GetAccountByEmail(ctx, req.Email)
	switch {
	case err != nil:
		log.Info("forgot-password for unresolvable email", "err", err)
	case !account.Active:
		log.Info("forgot-password for inactive account", "account_id", account.ID)
	default:
		secret, err := h.ResetService.RequestReset(ctx, account)
		if err != nil {
			log.Error("failed to mint reset token", "err", err)
			break
		}
		// Delivery happens off the request path; the mail provider's
		// latency must not shape the response time.
		go h.deliver(account.Email, secret)
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: forgotPasswordMessage,
	})
}

func (h *ForgotPasswordHandler) deliver(recipient, secret string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	link := h.ResetURL + "?token=" + url.QueryEscape(secret)
	if err := h.Mailer.SendPasswordReset(ctx, recipient, link); err != nil {
		h.Logger.Error("failed to send password reset email", "err", err)
	}
}

type ResetPasswordHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Redeem a mailed reset token and set a new password. Each token works at most once.
//	@Description	Unknown, already-used and expired tokens are all rejected with the same error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	authapi.MessageResponse			"message"
//	@Failure		400		{object}	authapi.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authapi.ErrorResponse			"error, error_description"
//	@Router			/v1/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.ResetService.CompleteReset(ctx, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			authapi.ErrInvalidResetToken.WriteError(w)
			return
		}
		log.Error("failed to reset password", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "Password has been reset. You can now log in with your new password.",
	})
}
