package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// UserDB provides user persistence over the shared connection pool.
// Obtain one with DB.Users().
type UserDB struct {
	conn *sql.DB
}

// Users returns the user repository view of this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Compile-time check that *UserDB implements repository.UserRepository.
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user, generating the ID and timestamps in place.
//
// The UNIQUE constraint on email is the last line of defence against a
// duplicate registration racing past the service's existence check; the
// constraint violation is translated to apperror.ErrDuplicate so callers
// can't tell the two paths apart.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Duplicate("user already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email.
// Returns apperror.ErrNotFound if no account uses the email.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.getUser(ctx, `WHERE email = ?`, email)
}

func (u *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, avatar_url, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}
