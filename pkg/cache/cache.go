// Package cache stores encoded resize results keyed by input content and
// target parameters.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for shared deployments of the HTTP server. [NullCache]
// disables caching. Backends only move bytes; the pipeline decides what
// goes in them.
//
// Keys are produced by a [Keyer] so that callers can namespace them
// (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures; callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLResult is the default lifetime of a cached resize result.
const TTLResult = 7 * 24 * time.Hour

// ResultKeyOpts are the parameters that, together with the input hash,
// determine a resize result.
type ResultKeyOpts struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey returns the key for the result of resizing the input whose
	// content hash is inputHash.
	ResultKey(inputHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces keys of the form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}
