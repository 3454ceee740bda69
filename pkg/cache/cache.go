// Package cache stores computed results (Markov boundary matrices, learned
// skeletons, rendered artifacts) so repeated runs over the same dataset and
// options skip the CI-test work.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are produced by a [Keyer] so every backend sees the same layout.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default entry lifetimes.
const (
	TTLBoundary = 7 * 24 * time.Hour
	TTLSkeleton = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// BoundaryKeyOpts are the inputs that change a Markov boundary matrix.
type BoundaryKeyOpts struct {
	Finder string  `json:"finder"`
	Test   string  `json:"test"`
	Alpha  float64 `json:"alpha"`
}

// SkeletonKeyOpts are the inputs that change a learned skeleton.
type SkeletonKeyOpts struct {
	Algorithm    string  `json:"algorithm"`
	Finder       string  `json:"finder"`
	Test         string  `json:"test"`
	Alpha        float64 `json:"alpha"`
	CliqueNumber int     `json:"clique_number"`
}

// Keyer builds cache keys.
type Keyer interface {
	BoundaryKey(dataHash string, opts BoundaryKeyOpts) string
	SkeletonKey(dataHash string, opts SkeletonKeyOpts) string
	ArtifactKey(skeletonHash, format string) string
}

// DefaultKeyer produces keys of the form "kind:sha256(...)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BoundaryKey keys a boundary matrix by dataset hash and finder options.
func (DefaultKeyer) BoundaryKey(dataHash string, opts BoundaryKeyOpts) string {
	return hashKey("mb", dataHash, opts)
}

// SkeletonKey keys a learned skeleton by dataset hash and learner options.
func (DefaultKeyer) SkeletonKey(dataHash string, opts SkeletonKeyOpts) string {
	return hashKey("skeleton", dataHash, opts)
}

// ArtifactKey keys a rendered artifact.
func (DefaultKeyer) ArtifactKey(skeletonHash, format string) string {
	return fmt.Sprintf("artifact:%s:%s", format, skeletonHash)
}

// ScopedKeyer prefixes every key of an inner Keyer, separating the
// namespaces of different deployments sharing one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) BoundaryKey(dataHash string, opts BoundaryKeyOpts) string {
	return k.prefix + k.inner.BoundaryKey(dataHash, opts)
}

func (k *ScopedKeyer) SkeletonKey(dataHash string, opts SkeletonKeyOpts) string {
	return k.prefix + k.inner.SkeletonKey(dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(skeletonHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(skeletonHash, format)
}

var (
	_ Cache = NullCache{}
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
