// Package cache stores computed reports and rendered artifacts behind a
// small byte-oriented interface with pluggable backends.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [MongoCache]: shared cache with documents kept alongside other data
//
// Keys are derived by a [Keyer] from the board digest, corporation and
// query options, so a changed board never reads a stale entry.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries. Entries are keyed by board digest, so they
// only expire to bound storage.
const (
	TTLReport   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ReportKeyOpts are the query options a report depends on.
type ReportKeyOpts struct {
	HomeAsToken  bool     `json:"home_as_token,omitempty"`
	NoBlocking   bool     `json:"no_blocking,omitempty"`
	SkipTrack    []string `json:"skip_track,omitempty"`
	CheckTokens  bool     `json:"check_tokens,omitempty"`
	CheckRegions bool     `json:"check_regions,omitempty"`
}

// ArtifactKeyOpts are the rendering options an artifact depends on.
type ArtifactKeyOpts struct {
	Format   string        `json:"format"`
	Step     int           `json:"step"`
	Detailed bool          `json:"detailed,omitempty"`
	Search   ReportKeyOpts `json:"search"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey keys the connectivity report of corp on a board.
	ReportKey(boardDigest, corp string, opts ReportKeyOpts) string
	// ArtifactKey keys a rendering of corp's search at a given step.
	ArtifactKey(boardDigest, corp string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(boardDigest, corp string, opts ReportKeyOpts) string {
	return entryKey("report", boardDigest, corp, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(boardDigest, corp string, opts ArtifactKeyOpts) string {
	return entryKey("artifact", boardDigest, corp, opts)
}

var _ Keyer = DefaultKeyer{}
