// Package mail delivers password-reset emails. Delivery is out-of-band:
// callers dispatch it off the request path and a failed send never fails
// the HTTP response that triggered it.
package mail

import "context"

// Mailer sends a password-reset link to a recipient. The link carries the
// plaintext reset secret, so transport choice is security sensitive.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient, resetLink string) error
}
