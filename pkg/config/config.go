// Package config defines the run configuration passed through the pipeline.
//
// Configuration is layered: [Default] values, then an optional TOML file
// ([Load]), then environment variables ([Config.ApplyEnv]), then CLI flags.
// The resulting [Config] is passed explicitly to every component; nothing in
// the pipeline reads process-wide state.
//
// Example file:
//
//	registry_url    = "https://vcpkg.io/output.json"
//	overrides_dir   = "index"
//	output_dir      = "dist"
//	max_connections = 10
//
//	[cache]
//	backend = "redis"
//	ttl     = "6h"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/portindex/pkg/buildinfo"
	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/errors"
)

// Default endpoint and limit values.
const (
	DefaultRegistryURL    = "https://vcpkg.io/output.json"
	DefaultGitHubAPIURL   = "https://api.github.com"
	DefaultGitHubURL      = "https://github.com"
	DefaultOverridesDir   = "index"
	DefaultOutputDir      = "dist"
	DefaultMaxConnections = 10
	DefaultCacheTTL       = 6 * time.Hour
)

// Tag listing backends.
const (
	TagBackendGoGit = "go-git"
	TagBackendExec  = "git"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken         = "GH_TOKEN"
	EnvTokenFallback = "GITHUB_TOKEN"
	EnvRedisAddr     = "PORTINDEX_REDIS_ADDR"
	EnvMongoURI      = "PORTINDEX_MONGO_URI"
)

// Config holds endpoints, credentials, and concurrency limits for one run.
type Config struct {
	RegistryURL  string `toml:"registry_url"`
	GitHubAPIURL string `toml:"github_api_url"`
	GitHubURL    string `toml:"github_url"`
	UserAgent    string `toml:"user_agent"`

	// Token is the GitHub bearer token. It is never read from the config
	// file, only from the environment or flags.
	Token string `toml:"-"`

	OverridesDir string `toml:"overrides_dir"`
	OutputDir    string `toml:"output_dir"`
	// Database is the SQLite file path. Empty means <output_dir>/packages.db.
	Database string `toml:"database"`

	// MaxConnections bounds simultaneously open repository stats requests.
	MaxConnections int `toml:"max_connections"`
	// TagWorkers sizes the tag listing pool. Zero means runtime.NumCPU().
	TagWorkers int    `toml:"tag_workers"`
	TagBackend string `toml:"tag_backend"`

	Cache CacheConfig `toml:"cache"`
	Mongo MongoConfig `toml:"mongo"`
}

// CacheConfig selects the optional API response cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// MongoConfig configures the optional MongoDB sink. An empty URI disables it.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration that decodes from TOML strings like "6h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		RegistryURL:    DefaultRegistryURL,
		GitHubAPIURL:   DefaultGitHubAPIURL,
		GitHubURL:      DefaultGitHubURL,
		UserAgent:      buildinfo.UserAgent(),
		OverridesDir:   DefaultOverridesDir,
		OutputDir:      DefaultOutputDir,
		MaxConnections: DefaultMaxConnections,
		TagBackend:     TagBackendGoGit,
		Cache: CacheConfig{
			Backend: cache.BackendNone,
			TTL:     Duration{DefaultCacheTTL},
		},
		Mongo: MongoConfig{
			Database:   "portindex",
			Collection: "packages",
		},
	}
}

// Load reads the TOML file at path on top of Default. An empty path returns
// the defaults. Unknown keys are rejected so typos surface early.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// ApplyEnv overlays credentials and connection strings from the environment.
func (c *Config) ApplyEnv() {
	if tok := os.Getenv(EnvToken); tok != "" {
		c.Token = tok
	} else if tok := os.Getenv(EnvTokenFallback); tok != "" {
		c.Token = tok
	}
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.RedisAddr = addr
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Mongo.URI = uri
	}
}

// DatabasePath returns the SQLite file path.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.OutputDir, "packages.db")
}

// Validate checks limits and endpoints.
func (c *Config) Validate() error {
	for name, u := range map[string]string{
		"registry_url":   c.RegistryURL,
		"github_api_url": c.GitHubAPIURL,
		"github_url":     c.GitHubURL,
	} {
		if err := errors.ValidateURL(u); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	if c.MaxConnections <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_connections must be positive, got %d", c.MaxConnections)
	}
	if c.TagWorkers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tag_workers cannot be negative, got %d", c.TagWorkers)
	}
	switch c.TagBackend {
	case TagBackendGoGit, TagBackendExec:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown tag_backend %q", c.TagBackend)
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output_dir cannot be empty")
	}
	return nil
}
