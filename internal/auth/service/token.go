package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/cryptox"
	"github.com/tradutor-app/auth/pkg/jwtx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenService authenticates principals and mints access/refresh token
// pairs. Tokens are self-contained signed claims; nothing about an issued
// token is persisted, so there is no revocation short of expiry.
type TokenService struct {
	Issuer *jwtx.Issuer
	Store  store.Store
}

// Login implements the password grant: verify credentials, mint a pair.
//
// Every failure collapses into ErrInvalidCredentials so the response cannot
// be used to probe which emails are registered or which accounts are
// disabled; the specific branch is only logged.
func (s *TokenService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.Active {
		l.Info("login attempt on inactive account", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}
	if !account.HasPassword() {
		// Provider-only account; a password reset must run first.
		l.Info("password login attempt on provider-only account", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, *account.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(account)
}

// Refresh implements the refresh grant with rotation: a verified refresh
// token yields a fresh access token AND a fresh refresh token. The old
// refresh token is not tracked server-side; the client contract is to
// discard it.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Issuer.Verify(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		l.Info("refresh token rejected", slog.Any("error", err))
		return nil, ErrInvalidRefresh
	}

	// Re-resolve the account so role changes and deactivation take effect
	// at refresh time rather than surviving until refresh expiry.
	account, err := s.Store.Accounts().GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !account.Active {
		l.Info("refresh attempt on inactive account", slog.String("account_id", account.ID))
		return nil, ErrInvalidRefresh
	}

	return s.issuePair(account)
}

func (s *TokenService) issuePair(account domain.Account) (*domain.TokenPair, error) {
	access, err := s.Issuer.IssueAccess(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issuer.IssueRefresh(account.ID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.Issuer.AccessTTL().Seconds()),
	}, nil
}
