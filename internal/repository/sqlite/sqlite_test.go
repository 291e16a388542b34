package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/devconnect/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database, torn down
// with the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehash",
		AvatarURL:    "https://www.gravatar.com/avatar/abc",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() should be a no-op, got: %v", err)
	}
}
