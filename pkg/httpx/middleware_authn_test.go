package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradutor-app/auth/pkg/jwtx"
)

type stubVerifier struct {
	claims jwtx.Claims
	err    error

	gotToken string
	gotType  string
}

func (s *stubVerifier) Verify(token, expectedType string) (jwtx.Claims, error) {
	s.gotToken = token
	s.gotType = expectedType
	return s.claims, s.err
}

func TestAuthnMiddleware(t *testing.T) {
	claims := jwtx.Claims{TokenType: jwtx.TokenTypeAccess, Role: "admin"}
	claims.Subject = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	t.Run("injects verified claims into the context", func(t *testing.T) {
		v := &stubVerifier{claims: claims}

		var handlerRan bool
		h := AuthnMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerRan = true

			got, ok := ClaimsFromContext(r.Context())
			require.True(t, ok)
			require.Equal(t, claims.Subject, got.Subject)
			require.Equal(t, claims.Subject, SubjectFromContext(r.Context()))
			require.Equal(t, "admin", RoleFromContext(r.Context()))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.True(t, handlerRan)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "some-token", v.gotToken)
		require.Equal(t, jwtx.TokenTypeAccess, v.gotType)
	})

	t.Run("missing bearer header is a 401", func(t *testing.T) {
		h := AuthnMiddleware(&stubVerifier{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("verification failure is a 401", func(t *testing.T) {
		h := AuthnMiddleware(&stubVerifier{err: errors.New("bad token")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unauthenticated context yields no claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := ClaimsFromContext(req.Context())
		require.False(t, ok)
		require.Empty(t, SubjectFromContext(req.Context()))
		require.Empty(t, RoleFromContext(req.Context()))
	})
}
