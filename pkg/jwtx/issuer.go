package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrNotYetValid      = errors.New("jwtx: token not yet valid")
	ErrWrongType        = errors.New("jwtx: wrong token type")
	ErrIssuer           = errors.New("jwtx: issuer mismatch")
	ErrUnsupportedAlg   = errors.New("jwtx: unsupported signing algorithm")
)

// Issuer mints and verifies HMAC-signed access and refresh tokens with a
// single process-wide secret. Construct one per process from configuration;
// tests inject their own secret, TTLs and clock.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an Issuer. alg must name an HMAC method (HS256, HS384
// or HS512); asymmetric methods are rejected since verification shares the
// signing secret. Zero TTLs fall back to the package defaults.
func NewIssuer(secret []byte, alg, issuer string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}

	method := jwt.GetSigningMethod(alg)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}

	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &Issuer{
		secret:     secret,
		method:     method,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. For tests that need to simulate token
// expiry without sleeping.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// AccessTTL reports the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// IssueAccess signs a short-lived access token for subject. role may be
// empty for principals whose authorization is resolved elsewhere.
func (i *Issuer) IssueAccess(subject, role string) (string, error) {
	return i.sign(NewClaims(subject, TokenTypeAccess, role, i.issuer, i.accessTTL, i.now()))
}

// IssueRefresh signs a long-lived refresh token for subject. Refresh tokens
// carry no role; authorization is re-derived when they are exchanged.
func (i *Issuer) IssueRefresh(subject string) (string, error) {
	return i.sign(NewClaims(subject, TokenTypeRefresh, "", i.issuer, i.refreshTTL, i.now()))
}

func (i *Issuer) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// Verify validates the signature, expiry and type of token and returns its
// claims. expectedType must be TokenTypeAccess or TokenTypeRefresh; a valid
// token of the other type fails with ErrWrongType.
func (i *Issuer) Verify(token, expectedType string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if i.issuer != "" && claims.Issuer != i.issuer {
		return Claims{}, ErrIssuer
	}
	if claims.TokenType != expectedType {
		return Claims{}, ErrWrongType
	}

	return claims, nil
}

// mapParseError collapses golang-jwt's error chain into this package's
// taxonomy so callers can branch with errors.Is.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
