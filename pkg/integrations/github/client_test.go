package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/integrations"
)

func TestClient_RepoStats(t *testing.T) {
	var gotAuth, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/repos/madler/zlib":
			w.Write([]byte(`{"full_name":"madler/zlib","stargazers_count":5000,"open_issues":120,"forks_count":2400,"size":9}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server, "tok", nil)

	raw, stats, err := c.RepoStats(context.Background(), "madler/zlib", false)
	if err != nil {
		t.Fatalf("RepoStats failed: %v", err)
	}
	if stats.FullName != "madler/zlib" || stats.Stars != 5000 || stats.OpenIssues != 120 || stats.Forks != 2400 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(raw) == 0 {
		t.Error("expected raw body")
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUA != "portindex-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestClient_RepoStatsNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := testClient(t, server, "", nil)

	_, _, err := c.RepoStats(context.Background(), "nobody/nothing", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_RepoStatsMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"a/b","stargazers_count":1,"open_issues":0}`))
	}))
	defer server.Close()

	c := testClient(t, server, "", nil)

	raw, _, err := c.RepoStats(context.Background(), "a/b", false)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected the partial body to be returned")
	}
}

func TestClient_RepoStatsErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	c := testClient(t, server, "", nil)

	raw, stats, err := c.RepoStats(context.Background(), "a/b", false)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if stats != nil {
		t.Error("stats must be nil on failure")
	}
	if string(raw) != `{"message":"API rate limit exceeded"}` {
		t.Errorf("raw = %s, want the error payload", raw)
	}
}

func TestClient_RepoStatsCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"full_name":"a/b","stargazers_count":1,"open_issues":2,"forks_count":3}`))
	}))
	defer server.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	c := testClient(t, server, "", fc)
	ctx := context.Background()

	for range 3 {
		_, stats, err := c.RepoStats(ctx, "a/b", false)
		if err != nil {
			t.Fatalf("RepoStats: %v", err)
		}
		if stats.Forks != 3 {
			t.Errorf("Forks = %d, want 3", stats.Forks)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if _, _, err := c.RepoStats(ctx, "a/b", true); err != nil {
		t.Fatalf("RepoStats(refresh): %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("refresh should hit server, hits = %d", got)
	}
}

func TestParseRepoStats(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"complete", `{"full_name":"a/b","stargazers_count":0,"open_issues":0,"forks_count":0}`, nil},
		{"missing forks", `{"full_name":"a/b","stargazers_count":1,"open_issues":1}`, ErrMissingField},
		{"missing name", `{"stargazers_count":1,"open_issues":1,"forks_count":1}`, ErrMissingField},
		{"error payload", `{"message":"API rate limit exceeded"}`, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRepoStats([]byte(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRepoStats() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ParseRepoStats([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultAPIURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultAPIURL)
	}

	c = NewClient(Options{BaseURL: "http://localhost:9999/"})
	if c.baseURL != "http://localhost:9999" {
		t.Errorf("trailing slash not trimmed: %q", c.baseURL)
	}
}

func testClient(t *testing.T, server *httptest.Server, token string, c cache.Cache) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL:    server.URL,
		Token:      token,
		UserAgent:  "portindex-test",
		Cache:      c,
		CacheTTL:   time.Hour,
		HTTPClient: server.Client(),
	})
}
