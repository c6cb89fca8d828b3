// Package cache provides byte-level caching backends for GitHub API responses.
//
// The pipeline recomputes the full catalog on every run. A cache only
// memoizes raw HTTP bodies for a bounded TTL so that repeated runs within a
// short window do not exhaust the GitHub rate limit. The default backend is
// [NullCache], which stores nothing.
//
// Backends:
//   - [NullCache]: no-op, every lookup misses
//   - [FileCache]: one JSON file per key under a directory
//   - [RedisCache]: shared Redis instance, native key expiry
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backend names accepted by configuration.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the cached value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// KeyPrefix namespaces portindex entries in shared backends.
const KeyPrefix = "portindex:"

// DefaultDir returns the file cache location under the user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "portindex"), nil
}

// Open creates the cache selected by backend. An empty dir for the file
// backend selects [DefaultDir].
func Open(ctx context.Context, backend, dir, redisAddr string) (Cache, error) {
	switch backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case BackendRedis:
		rc, err := NewRedisCache(ctx, redisAddr, KeyPrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
