// Package pipeline runs the catalog build from registry snapshot to
// persisted tables.
//
// # Phases
//
// A run executes these phases strictly in order, each one finishing before
// the next starts:
//
//  1. fetch: download the registry snapshot
//  2. normalize: map registry records to canonical packages
//  3. overrides: append additions and apply field overrides
//  4. stats: repository statistics (bounded concurrent requests)
//  5. tags: version tags (worker pool)
//  6. persist: JSON snapshots, SQLite table, optional MongoDB mirror
//
// Only the runner goroutine modifies the working dataset. Enrichment
// workers return result values that the runner merges after each batch.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Packages), "packages")
//
// Fetch and persist failures abort the run. Per-record enrichment
// failures and malformed override files are logged and collected in the
// [Result].
package pipeline

import (
	"time"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/enrich"
)

// Phase names reported to observability hooks and logs.
const (
	PhaseFetch     = "fetch"
	PhaseNormalize = "normalize"
	PhaseOverrides = "overrides"
	PhaseStats     = "stats"
	PhaseTags      = "tags"
	PhasePersist   = "persist"
)

// Artifact file names under the output directory.
const (
	ArtifactRegistry = "cache.json"     // Registry body as downloaded
	ArtifactAPIDump  = "git.json"       // Raw repository API responses
	ArtifactSnapshot = "index_tmp.json" // Final structured catalog
)

// Options controls a single run.
type Options struct {
	Refresh   bool // Bypass the API response cache
	SkipStats bool // Leave stars, open_issues and forks unset
	SkipTags  bool // Leave versions unset
	NoPersist bool // Build the catalog without writing any artifact
}

// Result describes a completed run.
type Result struct {
	RunID          string
	Packages       []catalog.Package
	Registry       RegistryInfo
	Additions      int
	Overridden     int
	OverrideErrors []error
	Stats          *enrich.StatsReport // nil when skipped
	Tags           *enrich.TagReport   // nil when skipped
	Artifacts      map[string]string   // Artifact name -> written path
	Durations      map[string]time.Duration
}

// RegistryInfo summarizes the fetched snapshot.
type RegistryInfo struct {
	URL         string
	GeneratedOn string
	Records     int // Decoded registry records
	Skipped     int // Records that failed to decode
	GitHub      int // Records kept by normalization
}
