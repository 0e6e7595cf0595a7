package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/cryptox"
	"github.com/tradutor-app/auth/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestAccount(t *testing.T, s *Store) domain.Account {
	t.Helper()

	hash := "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	a := domain.Account{
		ID:           idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		Name:         "Test Account",
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		Active:       true,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func createTestResetToken(t *testing.T, s *Store, accountID string, expiresAt time.Time) (domain.ResetToken, string) {
	t.Helper()

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	token := domain.ResetToken{
		ID:         idx.New().String(),
		AccountID:  accountID,
		SecretHash: cryptox.FingerprintToken(secret),
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, s.ResetTokens().CreateResetToken(context.Background(), token))
	return token, secret
}

func TestCreateResetTokenUniqueHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	a := createTestAccount(t, s)
	token, _ := createTestResetToken(t, s, a.ID, time.Now().Add(time.Hour))

	dup := domain.ResetToken{
		ID:         idx.New().String(),
		AccountID:  a.ID,
		SecretHash: token.SecretHash,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	err := s.ResetTokens().CreateResetToken(context.Background(), dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestConsumeResetToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	t.Run("consumes a live token once", func(t *testing.T) {
		s := newTestStore(t)
		a := createTestAccount(t, s)
		token, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))

		got, err := s.ResetTokens().ConsumeResetToken(ctx, token.SecretHash, now)
		require.NoError(t, err)
		require.Equal(t, a.ID, got.AccountID)
		require.True(t, got.Used)

		_, err = s.ResetTokens().ConsumeResetToken(ctx, token.SecretHash, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired token is indistinct from missing", func(t *testing.T) {
		s := newTestStore(t)
		a := createTestAccount(t, s)
		token, _ := createTestResetToken(t, s, a.ID, now.Add(-time.Minute))

		_, err := s.ResetTokens().ConsumeResetToken(ctx, token.SecretHash, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.ResetTokens().ConsumeResetToken(ctx, "no-such-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("concurrent consumers race to one winner", func(t *testing.T) {
		// The losers must observe a plain 0-rows outcome, never a raw
		// SQLITE_BUSY; busy_timeout has to hold on every pooled
		// connection, not just one.
		s := newTestStore(t)
		a := createTestAccount(t, s)
		token, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))

		const workers = 16
		results := make(chan error, workers)
		for range workers {
			go func() {
				_, err := s.ResetTokens().ConsumeResetToken(ctx, token.SecretHash, time.Now())
				results <- err
			}()
		}

		var wins, losses int
		for range workers {
			if err := <-results; err == nil {
				wins++
			} else {
				require.ErrorIs(t, err, store.ErrNotFound)
				losses++
			}
		}
		require.Equal(t, 1, wins)
		require.Equal(t, workers-1, losses)
	})
}

func TestCreateResetTokenRequiresAccount(t *testing.T) {
	t.Parallel()

	// The accounts FK must hold on whichever pooled connection runs the
	// insert, which is why foreign_keys rides on the DSN.
	s := newTestStore(t)

	orphan := domain.ResetToken{
		ID:         idx.New().String(),
		AccountID:  idx.New().String(),
		SecretHash: "some-hash",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.Error(t, s.ResetTokens().CreateResetToken(context.Background(), orphan))
}

func TestSupersedePendingResetTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	s := newTestStore(t)
	a := createTestAccount(t, s)
	old1, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))
	old2, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))

	require.NoError(t, s.ResetTokens().SupersedePendingResetTokens(ctx, a.ID, now))

	_, err := s.ResetTokens().ConsumeResetToken(ctx, old1.SecretHash, now)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ResetTokens().ConsumeResetToken(ctx, old2.SecretHash, now)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A token created after the supersede is unaffected.
	fresh, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))
	_, err = s.ResetTokens().ConsumeResetToken(ctx, fresh.SecretHash, now)
	require.NoError(t, err)
}

func TestDeleteExpiredResetTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	s := newTestStore(t)
	a := createTestAccount(t, s)
	expired, _ := createTestResetToken(t, s, a.ID, now.Add(-time.Hour))
	live, _ := createTestResetToken(t, s, a.ID, now.Add(time.Hour))

	require.NoError(t, s.ResetTokens().DeleteExpiredResetTokens(ctx, now))

	_, err := s.ResetTokens().ConsumeResetToken(ctx, expired.SecretHash, now)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ResetTokens().ConsumeResetToken(ctx, live.SecretHash, now)
	require.NoError(t, err)
}

func TestAccountsRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	t.Run("create and fetch by email and id", func(t *testing.T) {
		a := createTestAccount(t, s)

		byEmail, err := s.Accounts().GetAccountByEmail(ctx, a.Email)
		require.NoError(t, err)
		require.Equal(t, a.ID, byEmail.ID)
		require.True(t, byEmail.HasPassword())

		byID, err := s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, a.Email, byID.Email)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		a := createTestAccount(t, s)
		dup := a
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("nil password hash round-trips", func(t *testing.T) {
		a := domain.Account{
			ID:     idx.New().String(),
			Email:  idx.New().String() + "@example.com",
			Role:   domain.RoleUser,
			Active: true,
		}
		require.NoError(t, s.Accounts().CreateAccount(ctx, a))

		got, err := s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.Nil(t, got.PasswordHash)
		require.False(t, got.HasPassword())
	})

	t.Run("update password hash", func(t *testing.T) {
		a := createTestAccount(t, s)
		require.NoError(t, s.Accounts().UpdatePasswordHash(ctx, a.ID, "new-hash"))

		got, err := s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", *got.PasswordHash)
	})

	t.Run("update on missing account reports not found", func(t *testing.T) {
		err := s.Accounts().UpdatePasswordHash(ctx, "missing", "hash")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
