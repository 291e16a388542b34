package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/service"
)

// ProfileStore is the slice of the profile service the handler needs.
type ProfileStore interface {
	Upsert(ctx context.Context, userID string, in service.ProfileInput) (*model.Profile, error)
	Get(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	AddExperience(ctx context.Context, userID string, in service.ExperienceInput) (*model.Profile, error)
	RemoveExperience(ctx context.Context, userID, experienceID string) (*model.Profile, error)
	AddEducation(ctx context.Context, userID string, in service.EducationInput) (*model.Profile, error)
	RemoveEducation(ctx context.Context, userID, educationID string) (*model.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// ProfileHandler owns the developer-profile endpoints: the profile document
// itself, the experience/education sub-lists, and full account deletion.
type ProfileHandler struct {
	profiles ProfileStore
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// profileRequest is the wire shape for creating or updating a profile.
// Skills accepts either a JSON array or a single comma-separated string, so
// form-style clients can send "js, go ,sql" and get ["js","go","sql"].
type profileRequest struct {
	Company        string           `json:"company"`
	Website        string           `json:"website"`
	Location       string           `json:"location"`
	Bio            string           `json:"bio"`
	Status         string           `json:"status"`
	GithubUsername string           `json:"githubusername"`
	Skills         model.StringList `json:"skills"`
	YouTube        string           `json:"youtube"`
	Twitter        string           `json:"twitter"`
	Facebook       string           `json:"facebook"`
	LinkedIn       string           `json:"linkedin"`
	Instagram      string           `json:"instagram"`
}

// dateField accepts "2006-01-02" or full RFC 3339 timestamps. The zero value
// means the client omitted the date.
type dateField struct {
	time.Time
}

func (d *dateField) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return apperror.ValidationFailed("date", "dates must be JSON strings")
	}
	s = s[1 : len(s)-1]
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return apperror.ValidationFailed("date", "invalid date format, want YYYY-MM-DD")
}

func (d *dateField) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// experienceRequest is the wire shape for a new work-history entry.
type experienceRequest struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        dateField  `json:"from"`
	To          *dateField `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

// educationRequest is the wire shape for a new education entry.
type educationRequest struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         dateField  `json:"from"`
	To           *dateField `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// HandleUpsert creates the caller's profile or updates it in place.
//
// HTTP: POST /profile (authenticated)
// RESPONSE: the stored profile, including the owner's name and avatar.
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), userID, service.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleMe returns the caller's own profile.
//
// HTTP: GET /profile/me (authenticated)
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleList returns every profile, newest first.
//
// HTTP: GET /profile (public)
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleGetByUser returns one user's profile by their user ID.
//
// HTTP: GET /profile/user/{user_id} (public)
func (h *ProfileHandler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleAddExperience prepends a work-history entry to the caller's profile.
//
// HTTP: PUT /profile/experience (authenticated)
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	var req experienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Time,
		To:          req.To.ptr(),
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteExperience removes one work-history entry by its ID. Removing
// an ID that is not present succeeds and returns the unchanged profile.
//
// HTTP: DELETE /profile/experience/{exp_id} (authenticated)
func (h *ProfileHandler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	profile, err := h.profiles.RemoveExperience(r.Context(), userID, r.PathValue("exp_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleAddEducation prepends an education entry to the caller's profile.
//
// HTTP: PUT /profile/education (authenticated)
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	var req educationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Time,
		To:           req.To.ptr(),
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteEducation removes one education entry by its ID.
//
// HTTP: DELETE /profile/education/{edu_id} (authenticated)
func (h *ProfileHandler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	profile, err := h.profiles.RemoveEducation(r.Context(), userID, r.PathValue("edu_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteAccount removes the caller's posts, profile, and user record
// in one shot.
//
// HTTP: DELETE /profile (authenticated)
// RESPONSE: {"msg": "user deleted"}
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	if err := h.profiles.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message{Msg: "user deleted"})
}
