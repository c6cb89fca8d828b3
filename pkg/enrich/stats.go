package enrich

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
	"github.com/matzehuels/portindex/pkg/integrations/github"
)

// DefaultMaxConnections bounds in-flight repository requests.
const DefaultMaxConnections = 10

// StatsFetcher retrieves repository statistics for an "owner/repo" slug.
type StatsFetcher interface {
	RepoStats(ctx context.Context, slug string, refresh bool) ([]byte, *github.RepoStats, error)
}

// StatsResult is the outcome of one repository request.
type StatsResult struct {
	Repo  string
	Raw   []byte
	Stats *github.RepoStats
	Err   error
}

// StatsReport summarizes a stats enrichment batch.
type StatsReport struct {
	Repos    int               // Distinct repositories requested
	Failed   int               // Repositories whose request failed
	Enriched int               // Records that received stats
	Dump     []json.RawMessage // Raw JSON bodies ordered by repository, error payloads included
	Errors   []error           // ENRICHMENT_ERROR per failed repository
}

// StatsEnricher sets stars, open_issues and forks on catalog records.
type StatsEnricher struct {
	Client         StatsFetcher
	MaxConnections int  // Concurrent requests (default: 10)
	Refresh        bool // Bypass the response cache
	Logger         *log.Logger
}

// Enrich requests statistics once per distinct repository and merges the
// results into pkgs after every request has finished. Failures are confined
// to the records of the failing repository; only context cancellation
// returns an error.
func (e *StatsEnricher) Enrich(ctx context.Context, pkgs []catalog.Package) (*StatsReport, error) {
	results, err := e.Fetch(ctx, Repos(pkgs))
	if err != nil {
		return nil, err
	}

	report := &StatsReport{Repos: len(results), Dump: []json.RawMessage{}}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
			report.Errors = append(report.Errors, r.Err)
			e.logger().Warn("stats enrichment failed", "repo", r.Repo, "err", r.Err)
		}
		if json.Valid(r.Raw) {
			report.Dump = append(report.Dump, json.RawMessage(r.Raw))
		}
	}
	report.Enriched = MergeStats(pkgs, results)
	return report, nil
}

// Fetch runs one request per repository with at most MaxConnections in
// flight and returns the results sorted by repository. Request failures,
// including a panicking client, are carried in StatsResult.Err as
// ENRICHMENT_ERROR.
func (e *StatsEnricher) Fetch(ctx context.Context, repos []string) ([]StatsResult, error) {
	limit := e.MaxConnections
	if limit <= 0 {
		limit = DefaultMaxConnections
	}

	results := make([]StatsResult, len(repos))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, repo := range repos {
		g.Go(func() error {
			results[i] = e.fetchOne(ctx, repo)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b StatsResult) int {
		return cmp.Compare(a.Repo, b.Repo)
	})
	return results, nil
}

func (e *StatsEnricher) fetchOne(ctx context.Context, repo string) (res StatsResult) {
	defer func() {
		if p := recover(); p != nil {
			res = StatsResult{Repo: repo, Err: errors.New(errors.ErrCodeEnrichment, "repository %s: panic: %v", repo, p)}
		}
	}()

	if _, _, err := github.ParseRepoRef(repo); err != nil {
		return StatsResult{Repo: repo, Err: errors.Wrap(errors.ErrCodeEnrichment, err, "repository %q", repo)}
	}
	raw, stats, err := e.Client.RepoStats(ctx, repo, e.Refresh)
	if err != nil {
		return StatsResult{Repo: repo, Raw: raw, Err: errors.Wrap(errors.ErrCodeEnrichment, err, "repository %s", repo)}
	}
	return StatsResult{Repo: repo, Raw: raw, Stats: stats}
}

func (e *StatsEnricher) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// MergeStats copies successful results onto every record whose git_short
// equals the result's repository. All three counters are set together.
// Results may arrive in any order; the outcome is the same. It returns the
// number of records updated.
func MergeStats(pkgs []catalog.Package, results []StatsResult) int {
	byRepo := make(map[string]*github.RepoStats, len(results))
	for _, r := range results {
		if r.Err == nil && r.Stats != nil {
			byRepo[r.Repo] = r.Stats
		}
	}

	n := 0
	for i := range pkgs {
		s, ok := byRepo[pkgs[i].GitShort]
		if !ok {
			continue
		}
		stars, issues, forks := s.Stars, s.OpenIssues, s.Forks
		pkgs[i].Stars = &stars
		pkgs[i].OpenIssues = &issues
		pkgs[i].Forks = &forks
		n++
	}
	return n
}

// Repos returns the distinct non-empty git_short values of pkgs in first-seen
// order.
func Repos(pkgs []catalog.Package) []string {
	seen := make(map[string]bool, len(pkgs))
	var repos []string
	for _, p := range pkgs {
		if p.GitShort == "" || seen[p.GitShort] {
			continue
		}
		seen[p.GitShort] = true
		repos = append(repos, p.GitShort)
	}
	return repos
}
