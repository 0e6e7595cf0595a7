package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/cryptox"
	"github.com/tradutor-app/auth/pkg/idx"
	"github.com/tradutor-app/auth/pkg/slogx"
)

// DefaultResetTokenTTL bounds how long a mailed reset link stays valid.
const DefaultResetTokenTTL = 30 * time.Minute

// ErrResetTokenInvalid covers missing, already-used and expired reset
// tokens alike. Callers must not be able to tell which it was.
var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// ResetService is the password-reset ledger: it mints single-use,
// time-bound secrets, stores only their fingerprints, and redeems each at
// most once to authorize exactly one password change.
type ResetService struct {
	Store store.Store
	TTL   time.Duration // zero means DefaultResetTokenTTL
}

func (s *ResetService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultResetTokenTTL
}

// RequestReset mints a fresh reset secret for the account and persists its
// fingerprint. The returned plaintext exists only for out-of-band delivery
// (the reset email) and is never stored or logged.
//
// Any previously pending token for the account is superseded in the same
// transaction, so at most one mailed link is live at a time.
func (s *ResetService) RequestReset(ctx context.Context, account domain.Account) (string, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	token := domain.ResetToken{
		ID:         idx.New().String(),
		AccountID:  account.ID,
		SecretHash: cryptox.FingerprintToken(secret),
		ExpiresAt:  now.Add(s.ttl()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ResetTokens().SupersedePendingResetTokens(ctx, account.ID, now); err != nil {
			return err
		}
		return tx.ResetTokens().CreateResetToken(ctx, token)
	})
	if err != nil {
		// Includes the astronomically unlikely fingerprint collision
		// (store.ErrAlreadyExists). The caller retries the whole request
		// with a fresh secret; a failed secret is never reused.
		l.Error("failed to persist reset token",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	return secret, nil
}

// CompleteReset redeems a reset secret and overwrites the account's
// password hash. Redemption and the password update run in one transaction:
// a crash between the two cannot leave a redeemable token for an already
// changed password, and two concurrent redeems of the same secret cannot
// both succeed.
func (s *ResetService) CompleteReset(ctx context.Context, secret, newPassword string) error {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// CPU-bound hashing stays outside the transaction.
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	fingerprint := cryptox.FingerprintToken(secret)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.ResetTokens().ConsumeResetToken(ctx, fingerprint, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetTokenInvalid
			}
			return err
		}
		return tx.Accounts().UpdatePasswordHash(ctx, token.AccountID, newHash)
	})
	if err != nil {
		if !errors.Is(err, ErrResetTokenInvalid) {
			l.Error("failed to complete password reset", slog.Any("error", err))
		}
		return err
	}

	return nil
}
