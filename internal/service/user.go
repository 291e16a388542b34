package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/gravatar"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// UserService handles registration, login, and current-user lookup.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account and returns a signed credential embedding
// the new user's ID. The response is the token alone — the client trades it
// for the user record via GET /users/me if it wants one.
//
// The avatar URL is derived deterministically from the email (gravatar), the
// password is stored only as a salted bcrypt hash, and a taken email yields
// a duplicate-identity error whether it is caught by the lookup here or by
// the unique constraint underneath.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var fields []apperror.FieldError
	if name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(password) < MinPasswordLength {
		fields = append(fields, apperror.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be %d or more characters", MinPasswordLength),
		})
	}
	if len(fields) > 0 {
		return "", apperror.Validation(fields...)
	}

	// Friendly pre-check; the UNIQUE constraint catches the race.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", apperror.Duplicate("user already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    gravatar.URL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return "", err
		}
		s.logger.Error("user creation failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// Login checks the credentials and returns a signed token. Unknown email
// and wrong password produce the same indistinguishable failure.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", apperror.Validation(
			apperror.FieldError{Field: "email", Message: "email and password are required"},
		)
	}

	invalid := apperror.ValidationFailed("email", "invalid credentials")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", invalid
		}
		return "", fmt.Errorf("looking up user by email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", invalid
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return token, nil
}

// Me returns the user record for the authenticated caller.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/user: user ID must not be empty")
	}
	return s.users.GetByID(ctx, userID)
}
