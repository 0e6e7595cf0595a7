package sqlite

import (
	"context"
	"time"

	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/store"
)

type resetTokensRepo struct {
	db dbtx
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reset_tokens (id, account_id, secret_hash, expires_at, used, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.AccountID, t.SecretHash, t.ExpiresAt.UTC(), now, now,
	)
	return mapConstraint(err)
}

// ConsumeResetToken is the one concurrency-sensitive operation in this
// store: the used flag is flipped by a conditional UPDATE and the affected
// row count decides the outcome, so of two concurrent consumers of the same
// hash exactly one wins. Missing, used and expired tokens are all the same
// ErrNotFound.
func (r *resetTokensRepo) ConsumeResetToken(ctx context.Context, hash string, now time.Time) (domain.ResetToken, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reset_tokens
		SET used = 1, updated_at = ?
		WHERE secret_hash = ? AND used = 0 AND expires_at > ?`,
		now.UTC(), hash, now.UTC(),
	)
	if err != nil {
		return domain.ResetToken{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ResetToken{}, err
	}
	if n == 0 {
		return domain.ResetToken{}, store.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, secret_hash, expires_at, used, created_at, updated_at
		FROM reset_tokens WHERE secret_hash = ?`, hash)

	var t domain.ResetToken
	if err := row.Scan(&t.ID, &t.AccountID, &t.SecretHash, &t.ExpiresAt, &t.Used, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) SupersedePendingResetTokens(ctx context.Context, accountID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reset_tokens
		SET used = 1, updated_at = ?
		WHERE account_id = ? AND used = 0 AND expires_at > ?`,
		now.UTC(), accountID, now.UTC(),
	)
	return err
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reset_tokens WHERE expires_at <= ?`, now.UTC())
	return err
}
