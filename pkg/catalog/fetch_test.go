package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/portindex/pkg/errors"
	"github.com/matzehuels/portindex/pkg/integrations"
)

const registryBody = `{
  "Generated On": "2024-05-01T00:00:00Z",
  "Baseline": "a1b2c3",
  "Size": 3,
  "Source": [
    {"Name": "zlib", "Homepage": "https://github.com/madler/zlib", "Version": "1.3.1", "Stars": 5},
    {"Name": "fmt", "Homepage": "https://github.com/fmtlib/fmt", "Dependencies": ["vcpkg-cmake"]},
    {"Name": 7}
  ]
}`

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(registryBody))
	}))
	defer server.Close()

	client := integrations.NewClient(nil, "", 0, nil, integrations.WithHTTPClient(server.Client()))
	reg, err := NewFetcher(client, server.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if reg.Size != 3 || reg.GeneratedOn == "" || reg.Baseline != "a1b2c3" {
		t.Errorf("header fields not decoded: %+v", reg)
	}
	if len(reg.Packages) != 2 {
		t.Errorf("got %d packages, want 2", len(reg.Packages))
	}
	if len(reg.Skipped) != 1 {
		t.Errorf("got %d skipped, want 1", len(reg.Skipped))
	}
	if string(reg.Raw) != registryBody {
		t.Error("raw body not preserved")
	}
}

func TestFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html></html>"))
		}},
		{"no source", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Size": 0}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := integrations.NewClient(nil, "", 0, nil, integrations.WithHTTPClient(server.Client()))
			_, err := NewFetcher(client, server.URL).Fetch(context.Background())
			if !errors.Is(err, errors.ErrCodeFetch) {
				t.Errorf("expected FETCH_ERROR, got %v", err)
			}
		})
	}
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := integrations.NewClient(nil, "", 0, nil)
	_, err := NewFetcher(client, url).Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeFetch) {
		t.Errorf("expected FETCH_ERROR, got %v", err)
	}
}

func TestNewFetcherDefaultURL(t *testing.T) {
	if got := NewFetcher(nil, "").URL(); got != DefaultRegistryURL {
		t.Errorf("URL() = %q", got)
	}
}
