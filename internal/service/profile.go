// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; this layer validates input,
// enforces the domain rules, and talks to the repository interfaces. It
// returns apperror values, never HTTP status codes, and every operation
// takes the acting user's ID as an explicit argument — there is no ambient
// request state below the handler layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// ProfileService handles developer-profile business logic: the normalize-
// and-upsert flow, the ordered experience/education sub-lists, and the
// account-deletion cascade.
type ProfileService struct {
	profiles repository.ProfileRepository
	accounts repository.AccountRemover
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	profiles repository.ProfileRepository,
	accounts repository.AccountRemover,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		accounts: accounts,
		logger:   logger,
	}
}

// ProfileInput is the raw field set accepted by Upsert. Everything except
// Status and Skills is optional.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	YouTube        string
	Twitter        string
	Facebook       string
	LinkedIn       string
	Instagram      string
}

// ExperienceInput is a new work-history entry before validation.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput is a new education entry before validation.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// Upsert validates and normalizes the input, then atomically creates or
// updates the caller's profile. No prior GET is required — the first call
// creates the document, later calls update it in place.
//
// Normalization: the website and every populated social link become
// absolute HTTPS-preferring URLs (empty ones stay empty); skills are stored
// as an ordered, trimmed list of tags.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.Status) == "" {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "status is required"})
	}
	skills := normalizeSkills(in.Skills)
	if len(skills) == 0 {
		fields = append(fields, apperror.FieldError{Field: "skills", Message: "skills is required"})
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields...)
	}

	profile := &model.Profile{
		UserID:         userID,
		Company:        strings.TrimSpace(in.Company),
		Website:        normalizeURL(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Bio:            strings.TrimSpace(in.Bio),
		Status:         strings.TrimSpace(in.Status),
		GithubUsername: strings.TrimSpace(in.GithubUsername),
		Skills:         skills,
		Social: model.SocialLinks{
			YouTube:   normalizeURL(in.YouTube),
			Twitter:   normalizeURL(in.Twitter),
			Facebook:  normalizeURL(in.Facebook),
			LinkedIn:  normalizeURL(in.LinkedIn),
			Instagram: normalizeURL(in.Instagram),
		},
	}

	stored, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		s.logger.Error("profile upsert failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("upserting profile: %w", err)
	}

	s.logger.Info("profile upserted", slog.String("userID", userID))
	return stored, nil
}

// Get returns the profile for the given user, owner populated.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.ValidationFailed("user_id", "user ID is required")
	}
	return s.profiles.GetByUserID(ctx, userID)
}

// List returns every profile.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		s.logger.Error("profile list failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return profiles, nil
}

// AddExperience validates the entry and prepends it to the caller's
// experience list, so the most recently added entry is always first.
//
// The profile must already exist: adding experience to a user who never
// created a profile is an explicit not-found failure, not a crash.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*model.Profile, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(in.Company) == "" {
		fields = append(fields, apperror.FieldError{Field: "company", Message: "company is required"})
	}
	fields = append(fields, validateDates(in.From, in.To, in.Current)...)
	if len(fields) > 0 {
		return nil, apperror.Validation(fields...)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.Experience{
		ID:          xid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}

	// Prepend: newest entry first.
	profile.Experience = append([]model.Experience{entry}, profile.Experience...)

	stored, err := s.profiles.ReplaceLists(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("adding experience: %w", err)
	}

	s.logger.Info("experience added",
		slog.String("userID", userID),
		slog.String("experienceID", entry.ID),
	)
	return stored, nil
}

// RemoveExperience deletes the entry with the given sub-identifier from the
// caller's experience list. Removing an unknown ID is an idempotent no-op:
// the list is simply persisted unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, experienceID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := profile.Experience[:0:0]
	for _, e := range profile.Experience {
		if e.ID != experienceID {
			kept = append(kept, e)
		}
	}
	profile.Experience = kept

	stored, err := s.profiles.ReplaceLists(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("removing experience: %w", err)
	}

	s.logger.Info("experience removed",
		slog.String("userID", userID),
		slog.String("experienceID", experienceID),
	)
	return stored, nil
}

// AddEducation validates the entry and prepends it to the caller's
// education list. Same ordering, existence, and date rules as AddExperience.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*model.Profile, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.School) == "" {
		fields = append(fields, apperror.FieldError{Field: "school", Message: "school is required"})
	}
	if strings.TrimSpace(in.Degree) == "" {
		fields = append(fields, apperror.FieldError{Field: "degree", Message: "degree is required"})
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		fields = append(fields, apperror.FieldError{Field: "fieldofstudy", Message: "field of study is required"})
	}
	fields = append(fields, validateDates(in.From, in.To, in.Current)...)
	if len(fields) > 0 {
		return nil, apperror.Validation(fields...)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.Education{
		ID:           xid.New().String(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}

	profile.Education = append([]model.Education{entry}, profile.Education...)

	stored, err := s.profiles.ReplaceLists(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("adding education: %w", err)
	}

	s.logger.Info("education added",
		slog.String("userID", userID),
		slog.String("educationID", entry.ID),
	)
	return stored, nil
}

// RemoveEducation deletes the entry with the given sub-identifier from the
// caller's education list; unknown IDs are an idempotent no-op.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, educationID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := profile.Education[:0:0]
	for _, e := range profile.Education {
		if e.ID != educationID {
			kept = append(kept, e)
		}
	}
	profile.Education = kept

	stored, err := s.profiles.ReplaceLists(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("removing education: %w", err)
	}

	s.logger.Info("education removed",
		slog.String("userID", userID),
		slog.String("educationID", educationID),
	)
	return stored, nil
}

// DeleteAccount removes the caller's posts, profile, and user record, in
// that order.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.accounts.DeleteAccount(ctx, userID); err != nil {
		s.logger.Error("account deletion failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting account: %w", err)
	}

	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

// validateDates enforces the shared date rules for experience and education
// entries: a start date is required, an end date may not precede it, and a
// "current" entry has no end date at all.
func validateDates(from time.Time, to *time.Time, current bool) []apperror.FieldError {
	var fields []apperror.FieldError
	if from.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "from", Message: "from date is required"})
	}
	if current && to != nil {
		fields = append(fields, apperror.FieldError{Field: "to", Message: "a current entry cannot have an end date"})
	}
	if to != nil && !from.IsZero() && to.Before(from) {
		fields = append(fields, apperror.FieldError{Field: "to", Message: "end date cannot precede start date"})
	}
	return fields
}
