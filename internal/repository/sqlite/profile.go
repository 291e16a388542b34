package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// ProfileDB provides profile persistence. Obtain one with DB.Profiles().
type ProfileDB struct {
	conn *sql.DB
}

// Profiles returns the profile repository view of this database.
func (db *DB) Profiles() *ProfileDB {
	return &ProfileDB{conn: db.conn}
}

var _ repository.ProfileRepository = (*ProfileDB)(nil)

const profileColumns = `p.user_id, p.company, p.website, p.location, p.bio, p.status,
	p.github_username, p.skills, p.social, p.experience, p.education,
	p.created_at, p.updated_at, u.id, u.name, u.avatar_url`

// Upsert creates the profile or updates its fields in place, keyed by
// user_id.
//
// ATOMICITY:
// The whole operation is one INSERT ... ON CONFLICT(user_id) DO UPDATE
// statement. SQLite resolves the conflict inside the statement, so two
// concurrent upserts for the same user can never both take the insert path
// and leave two rows — the primary key plus the conflict clause make that
// impossible without any read-then-write window.
//
// The DO UPDATE branch deliberately leaves experience and education alone:
// re-submitting the profile form must not wipe the work history. Those
// columns only change through ReplaceLists.
func (p *ProfileDB) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	skills, social, err := marshalProfileFields(profile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = p.conn.ExecContext(ctx,
		`INSERT INTO profiles (user_id, company, website, location, bio, status,
			github_username, skills, social, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			company         = excluded.company,
			website         = excluded.website,
			location        = excluded.location,
			bio             = excluded.bio,
			status          = excluded.status,
			github_username = excluded.github_username,
			skills          = excluded.skills,
			social          = excluded.social,
			updated_at      = excluded.updated_at`,
		profile.UserID,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.Status,
		profile.GithubUsername,
		string(skills),
		string(social),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting profile for user %s: %w", profile.UserID, err)
	}

	// Re-read so the caller gets exactly what is stored, including the
	// untouched experience/education lists and the owner's name/avatar.
	return p.GetByUserID(ctx, profile.UserID)
}

// GetByUserID retrieves the profile joined with its owner's name and avatar.
// Returns apperror.ErrNotFound if the user has no profile.
func (p *ProfileDB) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	row := p.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ?`,
		userID,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting profile for user %s: %w", userID, err)
	}

	return profile, nil
}

// List returns every profile, newest first, each with its owner populated.
func (p *ProfileDB) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := p.conn.QueryContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profiles: %w", err)
	}

	return profiles, nil
}

// ReplaceLists overwrites the stored experience and education lists with the
// ones on the given profile, then returns the stored document.
// Returns apperror.ErrNotFound if the user has no profile.
func (p *ProfileDB) ReplaceLists(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	experience, err := json.Marshal(emptyIfNilExp(profile.Experience))
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding experience: %w", err)
	}
	education, err := json.Marshal(emptyIfNilEdu(profile.Education))
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding education: %w", err)
	}

	res, err := p.conn.ExecContext(ctx,
		`UPDATE profiles SET experience = ?, education = ?, updated_at = ?
		 WHERE user_id = ?`,
		string(experience),
		string(education),
		time.Now(),
		profile.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating profile lists for user %s: %w", profile.UserID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperror.NotFound("profile", profile.UserID)
	}

	return p.GetByUserID(ctx, profile.UserID)
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile reads one joined profile row, decoding the JSON columns.
func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		profile                               model.Profile
		user                                  model.UserRef
		skills, social, experience, education []byte
	)

	err := row.Scan(
		&profile.UserID,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.Status,
		&profile.GithubUsername,
		&skills,
		&social,
		&experience,
		&education,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&user.ID,
		&user.Name,
		&user.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	if err := json.Unmarshal(social, &profile.Social); err != nil {
		return nil, fmt.Errorf("decoding social links: %w", err)
	}
	if err := json.Unmarshal(experience, &profile.Experience); err != nil {
		return nil, fmt.Errorf("decoding experience: %w", err)
	}
	if err := json.Unmarshal(education, &profile.Education); err != nil {
		return nil, fmt.Errorf("decoding education: %w", err)
	}

	profile.User = &user
	return &profile, nil
}

// marshalProfileFields encodes the skills and social columns. A nil skills
// slice is stored as [] so reads never yield null.
func marshalProfileFields(profile *model.Profile) (skills, social []byte, err error) {
	s := profile.Skills
	if s == nil {
		s = []string{}
	}
	skills, err = json.Marshal(s)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: encoding skills: %w", err)
	}
	social, err = json.Marshal(profile.Social)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: encoding social links: %w", err)
	}
	return skills, social, nil
}

func emptyIfNilExp(list []model.Experience) []model.Experience {
	if list == nil {
		return []model.Experience{}
	}
	return list
}

func emptyIfNilEdu(list []model.Education) []model.Education {
	if list == nil {
		return []model.Education{}
	}
	return list
}
