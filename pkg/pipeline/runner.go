package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/config"
	"github.com/matzehuels/portindex/pkg/enrich"
	"github.com/matzehuels/portindex/pkg/integrations"
	"github.com/matzehuels/portindex/pkg/integrations/github"
	"github.com/matzehuels/portindex/pkg/observability"
	"github.com/matzehuels/portindex/pkg/overrides"
	"github.com/matzehuels/portindex/pkg/store"
)

// PackageSink receives the structured catalog after the relational write.
type PackageSink interface {
	ReplacePackages(ctx context.Context, pkgs []catalog.Package) error
}

// Runner executes catalog builds. All collaborators are exported so callers
// and tests can substitute them after [NewRunner].
type Runner struct {
	Config  *config.Config
	Fetcher *catalog.Fetcher
	Stats   enrich.StatsFetcher
	Tags    github.TagLister
	Mirror  PackageSink // Optional, e.g. *store.Mongo
	Logger  *log.Logger
}

// NewRunner wires the default collaborators for cfg. If c is nil, API
// responses are not cached. If logger is nil, log.Default() is used.
func NewRunner(cfg *config.Config, c cache.Cache, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}

	registry := integrations.NewClient(nil, "", 0, map[string]string{"User-Agent": cfg.UserAgent})
	gh := github.NewClient(github.Options{
		BaseURL:    cfg.GitHubAPIURL,
		Token:      cfg.Token,
		UserAgent:  cfg.UserAgent,
		Cache:      c,
		CacheTTL:   cfg.Cache.TTL.Duration,
		HTTPClient: integrations.NewHTTPClient(cfg.MaxConnections),
	})

	return &Runner{
		Config:  cfg,
		Fetcher: catalog.NewFetcher(registry, cfg.RegistryURL),
		Stats:   gh,
		Tags:    NewTagLister(cfg.TagBackend),
		Logger:  logger,
	}
}

// NewTagLister returns the lister for a tag_backend setting.
func NewTagLister(backend string) github.TagLister {
	if backend == config.TagBackendExec {
		return github.NewExecLister()
	}
	return github.NewRemoteLister()
}

// Execute runs every phase in order and returns the finished catalog.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string]string),
		Durations: make(map[string]time.Duration),
	}
	logger := r.Logger.With("run", res.RunID)

	// fetch
	var reg *catalog.Registry
	err := r.phase(ctx, res, PhaseFetch, func() (int, error) {
		var err error
		if reg, err = r.Fetcher.Fetch(ctx); err != nil {
			return 0, err
		}
		return len(reg.Packages), nil
	})
	if err != nil {
		return nil, err
	}
	res.Registry = RegistryInfo{
		URL:         r.Fetcher.URL(),
		GeneratedOn: reg.GeneratedOn,
		Records:     len(reg.Packages),
		Skipped:     len(reg.Skipped),
	}
	for _, e := range reg.Skipped {
		logger.Warn("skipped registry record", "err", e)
	}
	logger.Info("fetched registry", "records", len(reg.Packages), "skipped", len(reg.Skipped))
	if !opts.NoPersist {
		if err := r.writeArtifact(res, ArtifactRegistry, reg.Raw); err != nil {
			return nil, err
		}
	}

	// normalize
	var pkgs []catalog.Package
	_ = r.phase(ctx, res, PhaseNormalize, func() (int, error) {
		pkgs = catalog.Normalize(reg.Packages)
		return len(pkgs), nil
	})
	res.Registry.GitHub = len(pkgs)
	logger.Info("normalized catalog", "packages", len(pkgs))

	// overrides
	err = r.phase(ctx, res, PhaseOverrides, func() (int, error) {
		var err error
		pkgs, err = r.applyOverrides(logger, res, pkgs)
		return res.Overridden, err
	})
	if err != nil {
		return nil, err
	}

	// stats
	if !opts.SkipStats {
		err = r.phase(ctx, res, PhaseStats, func() (int, error) {
			e := &enrich.StatsEnricher{
				Client:         r.Stats,
				MaxConnections: r.Config.MaxConnections,
				Refresh:        opts.Refresh,
				Logger:         logger,
			}
			report, err := e.Enrich(ctx, pkgs)
			if err != nil {
				return 0, err
			}
			res.Stats = report
			return report.Enriched, nil
		})
		if err != nil {
			return nil, err
		}
		logger.Info("enriched repository stats",
			"repos", res.Stats.Repos,
			"failed", res.Stats.Failed,
			"packages", res.Stats.Enriched)
		if !opts.NoPersist {
			if err := r.writeJSONArtifact(res, ArtifactAPIDump, res.Stats.Dump); err != nil {
				return nil, err
			}
		}
	}

	// tags
	if !opts.SkipTags {
		err = r.phase(ctx, res, PhaseTags, func() (int, error) {
			e := &enrich.TagEnricher{
				Lister:  r.Tags,
				BaseURL: r.Config.GitHubURL,
				Workers: r.Config.TagWorkers,
				Logger:  logger,
			}
			report, err := e.Enrich(ctx, pkgs)
			if err != nil {
				return 0, err
			}
			res.Tags = report
			return report.Enriched, nil
		})
		if err != nil {
			return nil, err
		}
		logger.Info("listed version tags",
			"repos", res.Tags.Repos,
			"skipped", res.Tags.Skipped,
			"failed", res.Tags.Failed)
	}

	res.Packages = pkgs

	// persist
	if !opts.NoPersist {
		err = r.phase(ctx, res, PhasePersist, func() (int, error) {
			return len(pkgs), r.persist(ctx, res, pkgs)
		})
		if err != nil {
			return nil, err
		}
		logger.Info("persisted catalog", "packages", len(pkgs), "database", r.Config.DatabasePath())
	}

	return res, nil
}

func (r *Runner) phase(ctx context.Context, res *Result, name string, fn func() (int, error)) error {
	hooks := observability.Pipeline()
	hooks.OnPhaseStart(ctx, name)
	start := time.Now()

	n, err := fn()

	d := time.Since(start)
	res.Durations[name] = d
	hooks.OnPhaseComplete(ctx, name, n, d, err)
	return err
}

func (r *Runner) applyOverrides(logger *log.Logger, res *Result, pkgs []catalog.Package) ([]catalog.Package, error) {
	loaded, err := overrides.Load(r.Config.OverridesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("override directory not found", "dir", r.Config.OverridesDir)
			return pkgs, nil
		}
		return nil, err
	}

	for _, e := range loaded.Errors {
		logger.Error("override file rejected", "err", e)
	}
	res.OverrideErrors = loaded.Errors

	names := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		names[p.Name] = true
	}
	for _, add := range loaded.Additions {
		normalized := catalog.Normalize([]catalog.RawPackage{add.Package})
		if len(normalized) == 0 {
			logger.Warn("addition is not hosted on GitHub", "source", add.Source)
			continue
		}
		for _, p := range normalized {
			if names[p.Name] {
				logger.Warn("addition duplicates an existing package", "name", p.Name, "source", add.Source)
			}
			names[p.Name] = true
		}
		pkgs = append(pkgs, normalized...)
		res.Additions += len(normalized)
	}

	touched, fieldErrs := overrides.Apply(pkgs, loaded.Overrides)
	for _, e := range fieldErrs {
		logger.Warn("override field skipped", "err", e)
	}
	res.Overridden = touched
	logger.Info("applied overrides",
		"additions", res.Additions,
		"overrides", len(loaded.Overrides),
		"packages", touched)
	return pkgs, nil
}

func (r *Runner) persist(ctx context.Context, res *Result, pkgs []catalog.Package) error {
	if err := r.writeJSONArtifact(res, ArtifactSnapshot, pkgs); err != nil {
		return err
	}

	db, err := store.OpenSQLite(r.Config.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.ReplacePackages(ctx, catalog.Flatten(pkgs)); err != nil {
		return err
	}
	res.Artifacts[store.PackagesTable] = r.Config.DatabasePath()

	if r.Mirror != nil {
		if err := r.Mirror.ReplacePackages(ctx, pkgs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeArtifact(res *Result, name string, data []byte) error {
	path := filepath.Join(r.Config.OutputDir, name)
	if err := store.WriteFile(path, data); err != nil {
		return err
	}
	res.Artifacts[name] = path
	return nil
}

func (r *Runner) writeJSONArtifact(res *Result, name string, v any) error {
	path := filepath.Join(r.Config.OutputDir, name)
	if err := store.WriteJSON(path, v); err != nil {
		return err
	}
	res.Artifacts[name] = path
	return nil
}
