package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// PostDB provides post persistence. Obtain one with DB.Posts().
type PostDB struct {
	conn *sql.DB
}

// Posts returns the post repository view of this database.
func (db *DB) Posts() *PostDB {
	return &PostDB{conn: db.conn}
}

var _ repository.PostRepository = (*PostDB)(nil)

// Create inserts a post. The API never writes posts itself; this exists so
// the account-deletion cascade can be exercised against real data.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now()

	_, err := p.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, text, created_at) VALUES (?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Text,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post for user %s: %w", post.UserID, err)
	}

	return nil
}

// CountByUser returns how many posts a user owns.
func (p *PostDB) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := p.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts for user %s: %w", userID, err)
	}
	return n, nil
}
