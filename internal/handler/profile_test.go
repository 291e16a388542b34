package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/handler"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/service"
	"github.com/stretchr/testify/assert"
)

// MockProfileService implements handler.ProfileStore for handler tests.
type MockProfileService struct {
	Profile  *model.Profile
	Profiles []model.Profile
	Err      error

	CapturedUserID     string
	CapturedInput      service.ProfileInput
	CapturedExperience service.ExperienceInput
	CapturedEducation  service.EducationInput
	CapturedEntryID    string
	DeletedUserID      string
}

func (m *MockProfileService) Upsert(ctx context.Context, userID string, in service.ProfileInput) (*model.Profile, error) {
	m.CapturedUserID = userID
	m.CapturedInput = in
	return m.Profile, m.Err
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	m.CapturedUserID = userID
	return m.Profile, m.Err
}

func (m *MockProfileService) List(ctx context.Context) ([]model.Profile, error) {
	return m.Profiles, m.Err
}

func (m *MockProfileService) AddExperience(ctx context.Context, userID string, in service.ExperienceInput) (*model.Profile, error) {
	m.CapturedUserID = userID
	m.CapturedExperience = in
	return m.Profile, m.Err
}

func (m *MockProfileService) RemoveExperience(ctx context.Context, userID, experienceID string) (*model.Profile, error) {
	m.CapturedUserID = userID
	m.CapturedEntryID = experienceID
	return m.Profile, m.Err
}

func (m *MockProfileService) AddEducation(ctx context.Context, userID string, in service.EducationInput) (*model.Profile, error) {
	m.CapturedUserID = userID
	m.CapturedEducation = in
	return m.Profile, m.Err
}

func (m *MockProfileService) RemoveEducation(ctx context.Context, userID, educationID string) (*model.Profile, error) {
	m.CapturedUserID = userID
	m.CapturedEntryID = educationID
	return m.Profile, m.Err
}

func (m *MockProfileService) DeleteAccount(ctx context.Context, userID string) error {
	m.DeletedUserID = userID
	return m.Err
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	return req.WithContext(auth.ContextWithUserID(req.Context(), "u1"))
}

func TestProfileHandler_HandleUpsert(t *testing.T) {
	t.Run("stores the profile for the authenticated user", func(t *testing.T) {
		mock := &MockProfileService{Profile: &model.Profile{
			UserID: "u1",
			Status: "Developer",
			Skills: []string{"js", "go"},
			User:   &model.UserRef{ID: "u1", Name: "Jane"},
		}}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"status":"Developer","skills":["js","go"],"website":"example.com"}`
		rr := httptest.NewRecorder()

		h.HandleUpsert(rr, authedRequest(http.MethodPost, "/profile", reqBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u1", mock.CapturedUserID)
		assert.Equal(t, []string{"js", "go"}, mock.CapturedInput.Skills)
		assert.Equal(t, "example.com", mock.CapturedInput.Website)

		var res model.Profile
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "Jane", res.User.Name)
	})

	t.Run("skills accepts a comma separated string", func(t *testing.T) {
		mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"status":"Developer","skills":"js, go ,sql"}`
		rr := httptest.NewRecorder()

		h.HandleUpsert(rr, authedRequest(http.MethodPost, "/profile", reqBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"js", "go", "sql"}, mock.CapturedInput.Skills)
	})

	t.Run("missing status and skills is a 400 with both fields", func(t *testing.T) {
		mock := &MockProfileService{Err: apperror.Validation(
			apperror.FieldError{Field: "status", Message: "status is required"},
			apperror.FieldError{Field: "skills", Message: "skills is required"},
		)}
		h := handler.NewProfileHandler(mock, testLogger())

		rr := httptest.NewRecorder()
		h.HandleUpsert(rr, authedRequest(http.MethodPost, "/profile", `{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res struct {
			Errors []apperror.FieldError `json:"errors"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Len(t, res.Errors, 2)
	})

	t.Run("anonymous request is a 401", func(t *testing.T) {
		h := handler.NewProfileHandler(&MockProfileService{}, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		h.HandleUpsert(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestProfileHandler_HandleMe(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		mock := &MockProfileService{Profile: &model.Profile{
			UserID: "u1",
			Skills: []string{"js", "go"},
		}}
		h := handler.NewProfileHandler(mock, testLogger())

		rr := httptest.NewRecorder()
		h.HandleMe(rr, authedRequest(http.MethodGet, "/profile/me", ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var res model.Profile
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, []string{"js", "go"}, []string(res.Skills))
	})

	t.Run("no profile yet is a 400 not a 404", func(t *testing.T) {
		mock := &MockProfileService{Err: apperror.NotFound("profile", "u1")}
		h := handler.NewProfileHandler(mock, testLogger())

		rr := httptest.NewRecorder()
		h.HandleMe(rr, authedRequest(http.MethodGet, "/profile/me", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "msg")
	})
}

func TestProfileHandler_HandleList(t *testing.T) {
	t.Run("empty list serialises as an array", func(t *testing.T) {
		mock := &MockProfileService{Profiles: []model.Profile{}}
		h := handler.NewProfileHandler(mock, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		rr := httptest.NewRecorder()

		h.HandleList(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})
}

func TestProfileHandler_HandleGetByUser(t *testing.T) {
	mock := &MockProfileService{Profile: &model.Profile{UserID: "u42"}}
	h := handler.NewProfileHandler(mock, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/profile/user/u42", nil)
	req.SetPathValue("user_id", "u42")
	rr := httptest.NewRecorder()

	h.HandleGetByUser(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u42", mock.CapturedUserID)
}

func TestProfileHandler_HandleAddExperience(t *testing.T) {
	t.Run("parses plain dates", func(t *testing.T) {
		mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"title":"Dev","company":"Acme","from":"2020-01-02","to":"2021-06-30"}`
		rr := httptest.NewRecorder()

		h.HandleAddExperience(rr, authedRequest(http.MethodPut, "/profile/experience", reqBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Dev", mock.CapturedExperience.Title)
		assert.Equal(t, 2020, mock.CapturedExperience.From.Year())
		if assert.NotNil(t, mock.CapturedExperience.To) {
			assert.Equal(t, 2021, mock.CapturedExperience.To.Year())
		}
	})

	t.Run("current role needs no end date", func(t *testing.T) {
		mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"title":"Dev","company":"Acme","from":"2020-01-02","current":true}`
		rr := httptest.NewRecorder()

		h.HandleAddExperience(rr, authedRequest(http.MethodPut, "/profile/experience", reqBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, mock.CapturedExperience.Current)
		assert.Nil(t, mock.CapturedExperience.To)
	})

	t.Run("unparseable date is a 400", func(t *testing.T) {
		mock := &MockProfileService{}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"title":"Dev","company":"Acme","from":"January 2020"}`
		rr := httptest.NewRecorder()

		h.HandleAddExperience(rr, authedRequest(http.MethodPut, "/profile/experience", reqBody))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, mock.CapturedUserID, "service must not be called on a bad payload")
	})

	t.Run("date rule violation is a 400 with the field named", func(t *testing.T) {
		mock := &MockProfileService{Err: apperror.ValidationFailed("to", "end date cannot precede start date")}
		h := handler.NewProfileHandler(mock, testLogger())

		reqBody := `{"title":"Dev","company":"Acme","from":"2021-01-01","to":"2020-01-01"}`
		rr := httptest.NewRecorder()

		h.HandleAddExperience(rr, authedRequest(http.MethodPut, "/profile/experience", reqBody))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "end date cannot precede start date")
	})
}

func TestProfileHandler_HandleDeleteExperience(t *testing.T) {
	mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
	h := handler.NewProfileHandler(mock, testLogger())

	req := authedRequest(http.MethodDelete, "/profile/experience/exp123", "")
	req.SetPathValue("exp_id", "exp123")
	rr := httptest.NewRecorder()

	h.HandleDeleteExperience(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "exp123", mock.CapturedEntryID)
}

func TestProfileHandler_HandleAddEducation(t *testing.T) {
	mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
	h := handler.NewProfileHandler(mock, testLogger())

	reqBody := `{"school":"MIT","degree":"BSc","fieldofstudy":"CS","from":"2016-09-01","to":"2020-06-01"}`
	rr := httptest.NewRecorder()

	h.HandleAddEducation(rr, authedRequest(http.MethodPut, "/profile/education", reqBody))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "MIT", mock.CapturedEducation.School)
	assert.Equal(t, "CS", mock.CapturedEducation.FieldOfStudy)
}

func TestProfileHandler_HandleDeleteEducation(t *testing.T) {
	mock := &MockProfileService{Profile: &model.Profile{UserID: "u1"}}
	h := handler.NewProfileHandler(mock, testLogger())

	req := authedRequest(http.MethodDelete, "/profile/education/edu123", "")
	req.SetPathValue("edu_id", "edu123")
	rr := httptest.NewRecorder()

	h.HandleDeleteEducation(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "edu123", mock.CapturedEntryID)
}

func TestProfileHandler_HandleDeleteAccount(t *testing.T) {
	t.Run("acknowledges the deletion", func(t *testing.T) {
		mock := &MockProfileService{}
		h := handler.NewProfileHandler(mock, testLogger())

		rr := httptest.NewRecorder()
		h.HandleDeleteAccount(rr, authedRequest(http.MethodDelete, "/profile", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u1", mock.DeletedUserID)
		assert.Contains(t, rr.Body.String(), "user deleted")
	})

	t.Run("anonymous request is a 401", func(t *testing.T) {
		mock := &MockProfileService{}
		h := handler.NewProfileHandler(mock, testLogger())

		req := httptest.NewRequest(http.MethodDelete, "/profile", nil)
		rr := httptest.NewRecorder()

		h.HandleDeleteAccount(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, mock.DeletedUserID)
	})
}
