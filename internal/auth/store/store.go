package store

import (
	"context"
	"errors"
	"time"

	"github.com/tradutor-app/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and make it obvious
// which operations participate in a transaction.
type Store interface {
	Accounts() Accounts
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the app via
	// ULID). Returns ErrAlreadyExists when the email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used during login and reset requests.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error

	// UpdateRole changes the account role.
	UpdateRole(ctx context.Context, accountID, role string) error

	// SetActive flips the active flag.
	SetActive(ctx context.Context, accountID string, active bool) error
}

type ResetTokens interface {
	// CreateResetToken stores a new reset attempt. secret_hash is unique;
	// a collision surfaces as ErrAlreadyExists and the caller retries with
	// a fresh secret.
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// ConsumeResetToken atomically marks the token matching hash as used,
	// provided it is unused and unexpired at now, and returns it. Returns
	// ErrNotFound for a missing, already-used or expired token; callers
	// must not distinguish the three. The guard is a conditional UPDATE
	// checked by affected-row count, so two concurrent consumers of the
	// same hash cannot both succeed.
	ConsumeResetToken(ctx context.Context, hash string, now time.Time) (domain.ResetToken, error)

	// SupersedePendingResetTokens marks every unused, unexpired token of
	// the account as used so only the newest mailed link stays live.
	SupersedePendingResetTokens(ctx context.Context, accountID string, now time.Time) error

	// DeleteExpiredResetTokens is housekeeping.
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) error
}
