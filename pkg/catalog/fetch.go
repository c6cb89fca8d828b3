package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/portindex/pkg/errors"
	"github.com/matzehuels/portindex/pkg/integrations"
)

// DefaultRegistryURL is the published vcpkg registry snapshot.
const DefaultRegistryURL = "https://vcpkg.io/output.json"

// Registry is a decoded registry snapshot.
type Registry struct {
	GeneratedOn string       // "Generated On" timestamp, if published
	Baseline    string       // Registry baseline commit, if published
	Size        int          // Declared number of source records
	Packages    []RawPackage // Decodable records in publication order
	Skipped     []error      // One entry per record that failed to decode
	Raw         []byte       // Response body as received
}

// Fetcher downloads the registry snapshot.
type Fetcher struct {
	client *integrations.Client
	url    string
}

// NewFetcher creates a Fetcher for url using client. An empty url selects
// [DefaultRegistryURL].
func NewFetcher(client *integrations.Client, url string) *Fetcher {
	if url == "" {
		url = DefaultRegistryURL
	}
	return &Fetcher{client: client, url: url}
}

// URL returns the endpoint the fetcher reads from.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch retrieves and decodes the registry. Any failure is a FETCH_ERROR.
func (f *Fetcher) Fetch(ctx context.Context) (*Registry, error) {
	body, err := f.client.GetBytes(ctx, f.url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "fetch registry %s", f.url)
	}
	return ParseRegistry(body)
}

// ParseRegistry decodes a registry body. The body must be a JSON object with
// a Source list. Individual records that cannot be decoded are reported in
// Skipped rather than failing the whole snapshot.
func ParseRegistry(body []byte) (*Registry, error) {
	var doc struct {
		GeneratedOn string            `json:"Generated On"`
		Baseline    string            `json:"Baseline"`
		Size        int               `json:"Size"`
		Source      []json.RawMessage `json:"Source"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "registry is not valid JSON")
	}
	if doc.Source == nil {
		return nil, errors.New(errors.ErrCodeFetch, "registry has no Source list")
	}

	reg := &Registry{
		GeneratedOn: doc.GeneratedOn,
		Baseline:    doc.Baseline,
		Size:        doc.Size,
		Packages:    make([]RawPackage, 0, len(doc.Source)),
		Raw:         body,
	}
	for i, entry := range doc.Source {
		p, err := DecodeRawPackage(entry)
		if err != nil {
			reg.Skipped = append(reg.Skipped, fmt.Errorf("source[%d]: %w", i, err))
			continue
		}
		reg.Packages = append(reg.Packages, p)
	}
	return reg, nil
}
