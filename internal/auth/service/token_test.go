package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/pkg/jwtx"
)

func newTestIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()

	issuer, err := jwtx.NewIssuer(
		[]byte("test-signing-secret"), "HS256", "auth.test",
		15*time.Minute, 7*24*time.Hour,
	)
	require.NoError(t, err)
	return issuer
}

func TestTokenService_Login(t *testing.T) {
	st := newTestStore(t)
	account := registerTestAccount(t, st, "login@example.com", "correct-horse-1")
	tokens := &TokenService{Issuer: newTestIssuer(t), Store: st}
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		pair, err := tokens.Login(ctx, account.Email, "correct-horse-1")
		require.NoError(t, err)
		require.Equal(t, "bearer", pair.TokenType)
		require.Equal(t, int64(900), pair.ExpiresIn)

		claims, err := tokens.Issuer.Verify(pair.AccessToken, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, account.ID, claims.Subject)
		require.Equal(t, domain.RoleUser, claims.Role)

		refresh, err := tokens.Issuer.Verify(pair.RefreshToken, jwtx.TokenTypeRefresh)
		require.NoError(t, err)
		require.Equal(t, account.ID, refresh.Subject)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := tokens.Login(ctx, account.Email, "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := tokens.Login(ctx, "nobody@example.com", "correct-horse-1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		require.NoError(t, st.Accounts().SetActive(ctx, account.ID, false))
		t.Cleanup(func() {
			require.NoError(t, st.Accounts().SetActive(ctx, account.ID, true))
		})

		_, err := tokens.Login(ctx, account.Email, "correct-horse-1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestTokenService_LoginProviderOnlyAccount(t *testing.T) {
	st := newTestStore(t)
	tokens := &TokenService{Issuer: newTestIssuer(t), Store: st}
	ctx := context.Background()

	account := domain.Account{
		ID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Email:  "sso@example.com",
		Name:   "SSO Account",
		Role:   domain.RoleUser,
		Active: true,
	}
	require.NoError(t, st.Accounts().CreateAccount(ctx, account))

	_, err := tokens.Login(ctx, account.Email, "any-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenService_Refresh(t *testing.T) {
	st := newTestStore(t)
	account := registerTestAccount(t, st, "refresh@example.com", "correct-horse-1")
	tokens := &TokenService{Issuer: newTestIssuer(t), Store: st}
	ctx := context.Background()

	pair, err := tokens.Login(ctx, account.Email, "correct-horse-1")
	require.NoError(t, err)

	t.Run("RotatesBothTokens", func(t *testing.T) {
		next, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, pair.AccessToken, next.AccessToken)
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

		claims, err := tokens.Issuer.Verify(next.AccessToken, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, account.ID, claims.Subject)
	})

	t.Run("PicksUpRoleChanges", func(t *testing.T) {
		require.NoError(t, st.Accounts().UpdateRole(ctx, account.ID, domain.RoleAdmin))

		next, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := tokens.Issuer.Verify(next.AccessToken, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("RejectsAccessTokenAsRefresh", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("RejectsTamperedToken", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.RefreshToken+"x")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("RejectsInactiveAccount", func(t *testing.T) {
		require.NoError(t, st.Accounts().SetActive(ctx, account.ID, false))

		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestTokenService_RefreshDeletedAccount(t *testing.T) {
	st := newTestStore(t)
	tokens := &TokenService{Issuer: newTestIssuer(t), Store: st}

	// A structurally valid refresh token whose subject no longer resolves.
	refresh, err := tokens.Issuer.IssueRefresh("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, err)

	_, err = tokens.Refresh(context.Background(), refresh)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	accounts := &AccountService{Store: st}
	ctx := context.Background()

	_, err := accounts.Register(ctx, "dupe@example.com", "First", "correct-horse-1", "")
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "dupe@example.com", "Second", "correct-horse-2", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}
