package enrich

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
	"github.com/matzehuels/portindex/pkg/integrations/github"
)

// TagResult is the outcome of one tag listing. Tags is empty, never nil,
// when the listing failed.
type TagResult struct {
	Repo string
	Tags []string
	Err  error
}

// TagReport summarizes a tag enrichment batch.
type TagReport struct {
	Repos    int     // Distinct repositories listed
	Skipped  int     // Records whose git_short looks like a URL
	Failed   int     // Listings that failed
	Enriched int     // Records that received a versions list
	Errors   []error // TAG_FETCH_ERROR per failed listing
}

// TagEnricher sets versions on catalog records from remote tag listings.
type TagEnricher struct {
	Lister  github.TagLister
	BaseURL string // Host the repositories live on, e.g. https://github.com
	Workers int    // Pool size (default: runtime.NumCPU)
	Logger  *log.Logger
}

// SkipTags reports whether a git_short cannot be listed: it is empty or
// still looks like a URL.
func SkipTags(gitShort string) bool {
	return gitShort == "" || strings.Contains(strings.ToLower(gitShort), "http")
}

// Enrich lists tags for every listable repository using a fixed pool of
// workers and left-joins the results onto pkgs by git_short. Records that
// were skipped keep a nil versions list. Only context cancellation returns
// an error.
func (e *TagEnricher) Enrich(ctx context.Context, pkgs []catalog.Package) (*TagReport, error) {
	report := &TagReport{}
	var repos []string
	seen := make(map[string]bool)
	for _, p := range pkgs {
		if SkipTags(p.GitShort) {
			report.Skipped++
			continue
		}
		if !seen[p.GitShort] {
			seen[p.GitShort] = true
			repos = append(repos, p.GitShort)
		}
	}

	results, err := e.Fetch(ctx, repos)
	if err != nil {
		return nil, err
	}

	report.Repos = len(results)
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
			report.Errors = append(report.Errors, r.Err)
			e.logger().Warn("tag listing failed", "repo", r.Repo, "err", r.Err)
		}
	}
	report.Enriched = MergeTags(pkgs, results)
	return report, nil
}

// Fetch lists tags for repos with a pool of Workers goroutines. Each worker
// takes repositories from a shared queue and sends back one TagResult per
// repository; a failure, even a panicking lister, never stops the other
// workers.
func (e *TagEnricher) Fetch(ctx context.Context, repos []string) ([]TagResult, error) {
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(repos), 1))

	jobs := make(chan string)
	out := make(chan TagResult, len(repos))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range jobs {
				out <- e.listOne(ctx, repo)
			}
		}()
	}

feed:
	for _, repo := range repos {
		select {
		case jobs <- repo:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(out)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]TagResult, 0, len(repos))
	for r := range out {
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b TagResult) int {
		return strings.Compare(a.Repo, b.Repo)
	})
	return results, nil
}

func (e *TagEnricher) listOne(ctx context.Context, repo string) (res TagResult) {
	defer func() {
		if p := recover(); p != nil {
			res = TagResult{Repo: repo, Tags: []string{}, Err: errors.New(errors.ErrCodeTagFetch, "list tags %s: panic: %v", repo, p)}
		}
	}()

	owner, name, err := github.ParseRepoRef(repo)
	if err != nil {
		return TagResult{Repo: repo, Tags: []string{}, Err: errors.Wrap(errors.ErrCodeTagFetch, err, "repository %q", repo)}
	}

	base := e.BaseURL
	if base == "" {
		base = "https://github.com"
	}
	tags, err := e.Lister.ListTags(ctx, github.RepoURL(base, owner, name))
	if err != nil {
		return TagResult{Repo: repo, Tags: []string{}, Err: errors.Wrap(errors.ErrCodeTagFetch, err, "list tags %s", repo)}
	}
	if tags == nil {
		tags = []string{}
	}
	return TagResult{Repo: repo, Tags: tags}
}

func (e *TagEnricher) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// MergeTags left-joins results onto pkgs by git_short. Every matched record
// gets its own copy of the tag list. It returns the number of records
// updated.
func MergeTags(pkgs []catalog.Package, results []TagResult) int {
	byRepo := make(map[string][]string, len(results))
	for _, r := range results {
		byRepo[r.Repo] = r.Tags
	}

	n := 0
	for i := range pkgs {
		tags, ok := byRepo[pkgs[i].GitShort]
		if !ok {
			continue
		}
		if tags == nil {
			tags = []string{}
		}
		pkgs[i].Versions = slices.Clone(tags)
		n++
	}
	return n
}
