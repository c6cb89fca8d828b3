// Package integrations provides the shared HTTP client used to talk to the
// package registry and the GitHub API.
//
// # Overview
//
// [Client] wraps an [http.Client] with default headers, an optional response
// cache, and request hooks from the observability package. Upstream-specific
// clients embed it:
//
//   - [github]: repository statistics and tag listings
//
// # Connection Limits
//
// [NewHTTPClient] builds a transport that caps simultaneously open
// connections per host. Repository statistics are fetched through such a
// client, so the cap bounds in-flight API requests regardless of how many
// goroutines are waiting on it.
//
// # Errors
//
// Non-2xx responses and transport failures wrap [ErrNetwork]; 404 responses
// return [ErrNotFound]. There is no retry: a failed request is reported to
// the caller once.
//
// [github]: github.com/matzehuels/portindex/pkg/integrations/github
package integrations
