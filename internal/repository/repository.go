// Package repository defines the storage interfaces the service layer
// depends on. Services never import a concrete storage package — the SQLite
// implementation lives in repository/sqlite and is injected at wiring time.
package repository

import (
	"context"

	"github.com/sakif/devconnect/internal/model"
)

// UserRepository stores registered accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrDuplicate if the
	// email is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail returns apperror.ErrNotFound when no account uses the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ProfileRepository stores developer profiles, one per user.
type ProfileRepository interface {
	// Upsert atomically creates the profile or updates its scalar fields,
	// skills and social links in place, keyed by profile.UserID. The
	// embedded experience/education lists are untouched on update. It must
	// be a single conditional write, never read-then-write: two concurrent
	// upserts for one user may not produce two rows. Returns the stored
	// profile with the owner's name/avatar populated.
	Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	// GetByUserID returns apperror.ErrNotFound when the user has no profile.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	// ReplaceLists persists the profile's experience/education lists,
	// overwriting what is stored. Used by sub-list mutations after they
	// edit the in-memory document.
	ReplaceLists(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

// PostRepository stores user posts. Only creation (for seeding) and bulk
// deletion (for the account cascade) are needed here.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

// AccountRemover deletes everything owned by a user in one operation:
// posts, then profile, then the user row, inside a single transaction so a
// mid-cascade failure leaves no partial state.
type AccountRemover interface {
	DeleteAccount(ctx context.Context, userID string) error
}
