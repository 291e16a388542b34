package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
)

// In-memory fakes instead of a mock framework: what each fake does is right
// here on the page.

// fakeProfileRepo implements repository.ProfileRepository and
// repository.AccountRemover over a map keyed by user ID.
type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	owners   map[string]*model.UserRef

	upsertCalls int
	// set to simulate a storage failure
	upsertErr  error
	replaceErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*model.Profile),
		owners:   make(map[string]*model.UserRef),
	}
}

func (f *fakeProfileRepo) owner(userID string) *model.UserRef {
	if ref, ok := f.owners[userID]; ok {
		return ref
	}
	return &model.UserRef{ID: userID, Name: "Test User"}
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	f.upsertCalls++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	existing, ok := f.profiles[p.UserID]
	stored := *p
	if ok {
		// The update path leaves the embedded lists alone.
		stored.Experience = existing.Experience
		stored.Education = existing.Education
	}
	f.profiles[p.UserID] = &stored
	out := stored
	out.User = f.owner(p.UserID)
	return &out, nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperror.NotFound("profile", userID)
	}
	out := *p
	out.User = f.owner(userID)
	return &out, nil
}

func (f *fakeProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	out := []model.Profile{}
	for id, p := range f.profiles {
		c := *p
		c.User = f.owner(id)
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeProfileRepo) ReplaceLists(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	existing, ok := f.profiles[p.UserID]
	if !ok {
		return nil, apperror.NotFound("profile", p.UserID)
	}
	existing.Experience = p.Experience
	existing.Education = p.Education
	out := *existing
	out.User = f.owner(p.UserID)
	return &out, nil
}

func (f *fakeProfileRepo) DeleteAccount(ctx context.Context, userID string) error {
	delete(f.profiles, userID)
	return nil
}

// fakeUserRepo implements repository.UserRepository over maps.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.byEmail[user.Email]; taken {
		return apperror.Duplicate("user already exists")
	}
	user.ID = "user-" + string(rune('0'+f.nextID))
	f.nextID++
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return u, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProfileService(repo *fakeProfileRepo) *ProfileService {
	return NewProfileService(repo, repo, testLogger())
}

func newTestUserService(t *testing.T, repo *fakeUserRepo) *UserService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	// Cost 4 keeps bcrypt fast in tests.
	ps := auth.NewPasswordServiceForTest(4)

	return NewUserService(repo, ts, ps, testLogger())
}
