// Package github talks to GitHub for catalog enrichment.
//
// # Repository Statistics
//
// [Client.RepoStats] fetches /repos/{owner}/{repo} and returns both the raw
// response body and the parsed [RepoStats]. A response missing any of
// full_name, stargazers_count, open_issues or forks_count is rejected with
// [ErrMissingField], so callers never apply a partial set of counters.
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GH_TOKEN")})
//	raw, stats, err := client.RepoStats(ctx, "madler/zlib", false)
//
// A token is optional but recommended. Without one the API allows 60
// requests per hour.
//
// # Tags
//
// [TagLister] lists the tags a repository advertises, the equivalent of
// "git ls-remote --tags". Two implementations exist:
//
//   - [RemoteLister] speaks the git protocol through go-git, in process
//   - [ExecLister] runs the system git binary and parses its output
//
// Tag names are the last "/" segment of each refs/tags/* reference. Peeled
// "^{}" entries are dropped.
package github
