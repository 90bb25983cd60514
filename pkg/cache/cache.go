// Package cache stores solve results keyed by instance content and solver
// configuration.
//
// Three implementations share the [Cache] interface:
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server and batch
//     runs on several machines
//
// Keys come from a [Keyer] so that deployments can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; a non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// ResultKeyOpts are the solver settings that can change a cached result.
type ResultKeyOpts struct {
	Model             string `json:"model"`
	Rotation          bool   `json:"rotation"`
	Symmetry          bool   `json:"symmetry"`
	IdenticalSymmetry bool   `json:"identical_symmetry"`
	SymmetryDepth     int    `json:"symmetry_depth"`
	Order             string `json:"order"`
	Backend           string `json:"backend"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey is the key of a solve result for an instance content hash.
	ResultKey(instanceHash string, opts ResultKeyOpts) string
	// BoundsKey is the key of the height bounds of an instance.
	BoundsKey(instanceHash string, rotation bool) string
}

// DefaultKeyer produces "result:<sha256>" and "bounds:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(instanceHash string, opts ResultKeyOpts) string {
	return hashKey("result", instanceHash, opts)
}

// BoundsKey implements Keyer.
func (DefaultKeyer) BoundsKey(instanceHash string, rotation bool) string {
	return hashKey("bounds", instanceHash, rotation)
}
