package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/github"
)

// RepoLister fetches a user's public repositories.
type RepoLister interface {
	ReposForUser(ctx context.Context, username string) ([]github.Repo, error)
}

// GithubHandler proxies repository lookups so the server-held API token
// never reaches the client.
type GithubHandler struct {
	repos  RepoLister
	logger *slog.Logger
}

// NewGithubHandler creates a GithubHandler.
func NewGithubHandler(repos RepoLister, logger *slog.Logger) *GithubHandler {
	return &GithubHandler{repos: repos, logger: logger}
}

// HandleRepos returns a user's five most recently created public repos.
// Every upstream failure collapses into the same not-found response, so the
// client cannot tell a bad username from a rate limit or an outage.
//
// HTTP: GET /profile/github/{username} (public)
func (h *GithubHandler) HandleRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repos.ReposForUser(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repos)
}
