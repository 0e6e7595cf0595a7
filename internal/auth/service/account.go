package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/cryptox"
	"github.com/tradutor-app/auth/pkg/idx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

var ErrEmailTaken = errors.New("email already registered")

type AccountService struct {
	Store store.Store
}

// Register creates a local account with a hashed password. Role defaults
// to "user" when empty.
func (s *AccountService) Register(ctx context.Context, email, name, password, role string) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	if role == "" {
		role = domain.RoleUser
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Role:         role,
		Active:       true,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		l.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	return account, nil
}

// GetAccountByID fetches an account by id.
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByID(ctx, id)
}

// GetAccountByEmail fetches an account by email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByEmail(ctx, email)
}

// SetActive enables or disables an account. Disabled accounts cannot log
// in or refresh; outstanding access tokens stay valid until expiry.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) error {
	return s.Store.Accounts().SetActive(ctx, id, active)
}
