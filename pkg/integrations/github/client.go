package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/integrations"
)

// DefaultAPIURL is the public GitHub REST API endpoint.
const DefaultAPIURL = "https://api.github.com"

// ErrMissingField is returned when a repository response lacks one of the
// fields a [RepoStats] requires.
var ErrMissingField = errors.New("missing required field")

// Client provides access to the GitHub API for repository statistics.
// It handles HTTP requests with optional caching and authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// Options configures a [Client]. The zero value talks to the public API
// without authentication or caching.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Cache      cache.Cache
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// NewClient creates a GitHub API client.
// Pass an empty Token to use unauthenticated requests (lower rate limits).
func NewClient(opts Options) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}

	var clientOpts []integrations.Option
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, integrations.WithHTTPClient(opts.HTTPClient))
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Client{
		Client:  integrations.NewClient(opts.Cache, "github:", opts.CacheTTL, headers, clientOpts...),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// RepoStats holds the repository counters the catalog is enriched with.
type RepoStats struct {
	FullName   string
	Stars      int
	OpenIssues int
	Forks      int
}

// RepoStats retrieves statistics for an "owner/repo" identifier. It returns
// the raw response body alongside the parsed counters so callers can keep an
// unmodified copy. On failure the body is still returned when the API sent
// one, such as an error payload or a repository without counters. If refresh
// is true, cached data is bypassed.
func (c *Client) RepoStats(ctx context.Context, slug string, refresh bool) ([]byte, *RepoStats, error) {
	var (
		stats *RepoStats
		body  []byte
	)
	raw, err := c.Cached(ctx, "repo:"+slug, refresh, func() ([]byte, error) {
		var err error
		body, err = c.GetBytes(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, slug))
		if err != nil {
			var se *integrations.StatusError
			if errors.As(err, &se) {
				body = se.Body
			}
			if errors.Is(err, integrations.ErrNotFound) {
				return nil, fmt.Errorf("%w: github repo %s", err, slug)
			}
			return nil, err
		}
		if stats, err = ParseRepoStats(body); err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return body, nil, err
	}
	if stats == nil {
		if stats, err = ParseRepoStats(raw); err != nil {
			return raw, nil, err
		}
	}
	return raw, stats, nil
}

// ParseRepoStats decodes a /repos/{owner}/{repo} response. Every counter
// and full_name must be present; a partial response is an error.
func ParseRepoStats(data []byte) (*RepoStats, error) {
	var r repoResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode repository: %w", err)
	}

	var missing []string
	if r.FullName == nil {
		missing = append(missing, "full_name")
	}
	if r.Stars == nil {
		missing = append(missing, "stargazers_count")
	}
	if r.OpenIssues == nil {
		missing = append(missing, "open_issues")
	}
	if r.Forks == nil {
		missing = append(missing, "forks_count")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return &RepoStats{
		FullName:   *r.FullName,
		Stars:      *r.Stars,
		OpenIssues: *r.OpenIssues,
		Forks:      *r.Forks,
	}, nil
}

type repoResponse struct {
	FullName   *string `json:"full_name"`
	Stars      *int    `json:"stargazers_count"`
	OpenIssues *int    `json:"open_issues"`
	Forks      *int    `json:"forks_count"`
}
