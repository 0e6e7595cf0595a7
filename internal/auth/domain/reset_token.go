package domain

import "time"

// ResetToken is one password-reset attempt. Only the SHA-256 fingerprint of
// the mailed secret is stored; the plaintext exists once in the reset email
// and once in the redeem request.
//
// A row is redeemable iff Used is false and ExpiresAt has not passed. Used
// transitions false to true exactly once; expired and used rows are
// terminal.
type ResetToken struct {
	ID         string
	AccountID  string
	SecretHash string // base64url SHA-256 fingerprint, unique across all rows
	ExpiresAt  time.Time
	Used       bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Redeemable reports whether the token can still authorize a password
// change at the given instant.
func (t ResetToken) Redeemable(now time.Time) bool {
	return !t.Used && !now.After(t.ExpiresAt)
}
