package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
)

// UserRegistrar is the slice of the user service the handler needs. Keeping
// it an interface lets the tests swap in a fake without touching storage.
type UserRegistrar interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

// UserHandler owns the account endpoints: registration, login, and the
// current-user lookup.
type UserHandler struct {
	users  UserRegistrar
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserRegistrar, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister creates an account and returns a signed token.
//
// HTTP: POST /users
// REQUEST BODY: {"name": "Jane", "email": "a@x.com", "password": "secret1"}
// RESPONSE: {"token": "..."}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleLogin trades credentials for a signed token.
//
// HTTP: POST /users/login
// REQUEST BODY: {"email": "a@x.com", "password": "secret1"}
// RESPONSE: {"token": "..."}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the authenticated caller's user record. The password
// hash never serialises (json:"-" on the model).
//
// HTTP: GET /users/me (authenticated)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Msg: "authorization token required"})
		return
	}

	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
