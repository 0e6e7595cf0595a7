package domain

import "time"

// Account roles. The deployment decides what "user" may do; "admin" gates
// the management endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a registered principal. PasswordHash is nil for accounts
// created through an external identity provider; those cannot log in with
// a password until they complete a password reset.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string // argon2id PHC string, nil for provider-only accounts
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate locally.
func (a Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
