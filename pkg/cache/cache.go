// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared storage for several processes
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that callers never assemble them by hand.
// Layout keys hash the deal configuration and card count; artifact keys
// hash the layout together with every render option that changes the bytes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key kinds, as reported to observability hooks.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout by the hash of its deal configuration.
	LayoutKey(configHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout inputs that are not part of the
// configuration hash.
type LayoutKeyOpts struct {
	Cards int    `json:"cards"`
	Seed  uint64 `json:"seed"`
}

// ArtifactKeyOpts holds every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Resize   bool    `json:"resize,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	DealArea bool    `json:"deal_area,omitempty"`
	Still    bool    `json:"still,omitempty"`
	FrameNS  int64   `json:"frame_ns,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(configHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, configHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}

// Fetch is Get with a miss reported as ErrCacheMiss.
func Fetch(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrCacheMiss
	}
	return data, nil
}
