package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminator values carried in the "token_type" claim. A
// refresh token must never be accepted where an access token is expected
// (and vice versa), so every verification names the type it expects.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Default token TTLs. Overridable per-service via configuration.
const (
	// DefaultAccessTokenTTL keeps access tokens short-lived.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL trades security for not re-prompting users
	// every few minutes.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the signed payload of both access and refresh tokens. Validity
// is reconstructed entirely from this payload at verification time; nothing
// about an issued token is persisted server-side.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is "access" or "refresh".
	TokenType string `json:"token_type"`

	// Role is embedded on access tokens as an authorization shortcut so
	// middleware can gate admin endpoints without a user lookup.
	Role string `json:"role,omitempty"`
}

// NewClaims builds a claims set for the given subject and type.
func NewClaims(subject, tokenType, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		TokenType: tokenType,
		Role:      role,
	}
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
