// Package cache stores generated layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so the pipeline, the server and the CLI agree
// on what a cached entry depends on: the canonical hierarchy hash plus every
// option that changes the output.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes. Layouts depend only on their key, so they live
// long; artifacts are larger and cheap to re-render.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key types passed to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a generated layout by hierarchy hash and geometry.
	LayoutKey(hierarchyHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash, format and
	// collapsed set.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the geometry that affects a generated layout.
type LayoutKeyOpts struct {
	OriginX, OriginY  float64
	TopicRadius       float64
	KeyPointRadius    float64
	SubtopicRadius    float64
	SubKeyPointRadius float64
	KeyPointArc       float64
	SubtopicArc       float64
	SubKeyPointArc    float64
	NodeWidth         float64
	NodeHeight        float64
}

// ArtifactKeyOpts lists what affects a rendered artifact. Collapsed must be
// sorted so equal sets produce equal keys.
type ArtifactKeyOpts struct {
	Format    string
	Engine    string
	Detailed  bool
	PNGScale  float64
	Collapsed []string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(hierarchyHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, hierarchyHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}
