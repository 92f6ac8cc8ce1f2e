// Package cache stores encoded pipeline artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, used by the CLI
//   - [RedisCache]: a shared cache for the preview server (go-redis)
//   - [NullCache]: never stores anything, used for --no-cache
//
// All backends implement [Cache]. Entries carry a TTL; expired entries read
// as misses.
//
// # Keys
//
// A [Keyer] builds cache keys. Keys are derived from content hashes, never
// from file names, so a cached artifact is only reused for a byte-identical
// graph:
//
//	k := cache.NewDefaultKeyer()
//	k.GraphKey(cache.Hash(fileBytes))
//	k.ArtifactKey(graphHash, cache.ArtifactKeyOpts{NodeID: "view", Scale: 2, Format: "png"})
//
// [ScopedKeyer] prefixes every key, which lets several sessions share one
// Redis instance without colliding.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs.
const (
	// GraphTTL is how long a decoded graph stays cached.
	GraphTTL = 24 * time.Hour
	// ArtifactTTL is how long an encoded image stays cached.
	ArtifactTTL = 7 * 24 * time.Hour
)

// DefaultDir returns the CLI cache directory: $XDG_CACHE_HOME/pixelgraph,
// falling back to the platform user cache dir and finally the temp dir.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "pixelgraph")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pixelgraph")
	}
	return filepath.Join(os.TempDir(), "pixelgraph-cache")
}
