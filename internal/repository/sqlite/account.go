package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/repository"
)

var _ repository.AccountRemover = (*DB)(nil)

// DeleteAccount removes everything owned by a user: posts first, then the
// profile, then the user row.
//
// The three deletions run in one transaction. The fixed order matters for
// referential integrity (posts and profiles reference users), and the
// transaction means a failure partway through rolls the earlier deletions
// back — the cascade either completes or leaves the account untouched.
func (db *DB) DeleteAccount(ctx context.Context, userID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting posts for user %s: %w", userID, err)
	}

	// The profile may legitimately not exist; zero rows affected is fine.
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting profile for user %s: %w", userID, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("user", userID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing account deletion for user %s: %w", userID, err)
	}

	return nil
}
