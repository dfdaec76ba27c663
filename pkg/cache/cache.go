// Package cache stores computed layouts keyed by a hash of their input.
//
// Every backend implements [Cache]: [NullCache] for disabled caching,
// [FileCache] for the CLI, [RedisCache] and [MongoCache] for the API server.
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures, which callers are expected to log and ignore.
//
// Keys come from a [Keyer]. The default keyer hashes the layout input
// together with every option that affects placement, so two requests share
// an entry only when they would produce the same layout.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long layouts stay cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if the backend supports it and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}

// LayoutKeyOpts holds the request options that change a layout's outcome.
type LayoutKeyOpts struct {
	Direction string
	Strategy  string
	Sizing    string
	// Config is any value describing the layout parameters. It is hashed as
	// JSON, so it must marshal deterministically.
	Config any
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes inputHash with opts.
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts.Direction, opts.Strategy, opts.Sizing, opts.Config)
}
