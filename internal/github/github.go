// Package github lists a user's public repositories via the GitHub REST API.
//
// This is a pass-through enrichment call: the handler hands us a username
// from the URL and we return GitHub's answer. By API contract every failure
// mode — unknown username, rate limiting, network error, malformed response —
// collapses to the same upstream error, which the handler serves as a 404.
// Callers depend on that uniformity; the real reason only appears in the log.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"golang.org/x/oauth2"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/cache"
)

const (
	defaultBaseURL = "https://api.github.com"

	// repoCacheTTL bounds how stale a cached repo listing can get.
	repoCacheTTL = 5 * time.Minute
)

// usernamePattern matches valid GitHub usernames: alphanumerics and single
// inner hyphens, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9]){0,38}$`)

// Repo is the slice of GitHub's repository object we forward to clients.
// GitHub returns a far larger document; we decode only these fields.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	Language    string `json:"language"`
}

// Client calls the GitHub API with a server-held token.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewClient creates a Client. The token raises GitHub's rate limit from 60
// to 5000 requests/hour; with an empty token the client still works,
// unauthenticated. The cache may be disabled (see package cache) — lookups
// then always hit GitHub.
func NewClient(token string, c *cache.Cache, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	if token != "" {
		// oauth2.NewClient returns an *http.Client that attaches
		// "Authorization: Bearer <token>" to every request.
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		http:    httpClient,
		baseURL: defaultBaseURL,
		cache:   c,
		logger:  logger,
	}
}

// NewClientForTest creates a Client pointed at a test server.
func NewClientForTest(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		logger:  logger,
	}
}

// ReposForUser returns up to five of the user's most recently created public
// repositories, newest first.
func (c *Client) ReposForUser(ctx context.Context, username string) ([]Repo, error) {
	if !usernamePattern.MatchString(username) {
		// Malformed input gets the same uniform answer as an upstream
		// failure — the contract leaks nothing about why.
		return nil, apperror.Upstream("no GitHub profile found")
	}

	cacheKey := "github:repos:" + username
	var cached []Repo
	if c.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "desc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, username, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.failure(username, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.failure(username, fmt.Errorf("calling GitHub: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(username, fmt.Errorf("GitHub returned status %d", resp.StatusCode))
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, c.failure(username, fmt.Errorf("decoding response: %w", err))
	}

	c.cache.SetJSON(ctx, cacheKey, repos, repoCacheTTL)

	return repos, nil
}

// failure logs the real reason and returns the uniform upstream error.
func (c *Client) failure(username string, err error) error {
	c.logger.Warn("github repo lookup failed",
		slog.String("username", username),
		slog.String("error", err.Error()),
	)
	return apperror.Upstream("no GitHub profile found")
}
