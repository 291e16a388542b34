// Package server wires handlers, middleware, and routes together, and owns
// the process lifecycle: it opens the database and cache on the way up and
// closes them on the way down.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/cache"
	"github.com/sakif/devconnect/internal/github"
	"github.com/sakif/devconnect/internal/handler"
	"github.com/sakif/devconnect/internal/middleware"
	sqliteRepo "github.com/sakif/devconnect/internal/repository/sqlite"
	"github.com/sakif/devconnect/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port          int
	DBPath        string
	JWTSecret     string
	GitHubToken   string // optional; raises the GitHub API rate limit
	RedisAddr     string // optional; empty disables the repo cache
	RedisPassword string
}

// Server is the HTTP server plus the resources it owns. The database and
// cache connections are opened in New and closed during shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	cache  *cache.Cache
}

// New assembles the full dependency chain: database and cache, then
// services over repository interfaces, then handlers over services. Each
// layer only sees the one below it — handlers never touch SQL, services
// never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		cache:  cache.New(cfg.RedisAddr, cfg.RedisPassword, logger),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Public:
//
//	POST   /users                          → register, returns {token}
//	POST   /users/login                    → login, returns {token}
//	GET    /profile                        → all profiles
//	GET    /profile/user/{user_id}         → one user's profile
//	GET    /profile/github/{username}      → proxied GitHub repos
//
// Authenticated (Bearer token):
//
//	GET    /users/me                       → current user record
//	GET    /profile/me                     → caller's profile
//	POST   /profile                        → create or update profile
//	DELETE /profile                        → delete account (posts, profile, user)
//	PUT    /profile/experience             → add work history
//	DELETE /profile/experience/{exp_id}    → remove work history entry
//	PUT    /profile/education              → add education
//	DELETE /profile/education/{edu_id}     → remove education entry
func (s *Server) setupRoutes() error {
	// Middleware runs in registration order: request ID first so the
	// logger can pick it up, Recoverer last so panics become 500s.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db.Users(), tokens, passwords, s.logger)
	profileService := service.NewProfileService(s.db.Profiles(), s.db, s.logger)
	githubClient := github.NewClient(s.config.GitHubToken, s.cache, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	githubHandler := handler.NewGithubHandler(githubClient, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Post("/users", userHandler.HandleRegister)
	s.router.Post("/users/login", userHandler.HandleLogin)
	s.router.Get("/profile", profileHandler.HandleList)
	s.router.Get("/profile/user/{user_id}", profileHandler.HandleGetByUser)
	s.router.Get("/profile/github/{username}", githubHandler.HandleRepos)

	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/users/me", userHandler.HandleMe)
		r.Get("/profile/me", profileHandler.HandleMe)
		r.Post("/profile", profileHandler.HandleUpsert)
		r.Delete("/profile", profileHandler.HandleDeleteAccount)
		r.Put("/profile/experience", profileHandler.HandleAddExperience)
		r.Delete("/profile/experience/{exp_id}", profileHandler.HandleDeleteExperience)
		r.Put("/profile/education", profileHandler.HandleAddEducation)
		r.Delete("/profile/education/{edu_id}", profileHandler.HandleDeleteEducation)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests for up to 30s, then
// close the cache and the database (which flushes the WAL).
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.cache.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
