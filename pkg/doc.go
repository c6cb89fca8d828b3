// Package pkg provides the libraries behind portindex, a catalog builder for
// vcpkg ports hosted on GitHub.
//
// # Overview
//
// A build downloads the vcpkg registry snapshot, keeps the ports whose
// homepage is on GitHub, merges a local override tree, enriches every port
// with repository statistics and version tags, and writes the result as
// JSON and as a SQLite table.
//
// # Architecture
//
// The data flow of one run:
//
//	vcpkg output.json
//	         ↓
//	    [catalog] fetch + normalize
//	         ↓
//	    [overrides] additions + field patches
//	         ↓
//	    [enrich] stars/issues/forks (bounded requests), tags (worker pool)
//	         ↓
//	    [store] index_tmp.json, packages table, optional MongoDB mirror
//
// [pipeline] runs the phases in order; [api] serves the persisted table.
//
// # Main Packages
//
// [catalog] - Registry and canonical record types, normalization, exclusion
// rules, ref parsing, and flattening for relational storage.
//
// [overrides] - Loads the override tree and applies canonical field patches.
//
// [enrich] - Repository statistics and version tag enrichment.
//
// [integrations] - Cached HTTP client and the GitHub API and tag listers.
//
// [store] - JSON, SQLite and MongoDB sinks, and override tree scaffolding.
//
// [cache] - Response caches: none, file, or Redis.
//
// [config] - TOML configuration with environment overlays.
//
// [errors] - Coded errors shared by every phase.
//
// [observability] - Hooks for pipeline phases and HTTP requests.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -tags integration ./pkg/...  # Include live GitHub tests
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/catalog
// [overrides]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/overrides
// [enrich]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/enrich
// [integrations]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/integrations
// [store]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/portindex/pkg/api
package pkg
