package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live (TTL). Callers should fetch fresh data and
// update the cache with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files named by the SHA-256 hash of
// their key.
//
// Each file holds an envelope with the write time, so expiry does not depend
// on filesystem timestamps. A TTL of 0 means entries never expire.
//
// Cache is not goroutine-safe for writes to the same key; distinct keys and
// distinct processes can share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

type envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// NewCache creates a Cache in dir with the given TTL. An empty dir means
// ~/.cache/archgraph/http. The directory is created if missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// DefaultCacheDir returns ~/.cache/archgraph/http.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "archgraph", "http"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live for entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads the value stored under key into v.
//
//   - (true, nil): hit, v is populated
//   - (false, nil): miss, v is unchanged
//   - (false, ErrExpired): entry is older than the TTL
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(c.keyPath(c.prefix + key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, err
	}
	if c.ttl > 0 && c.now().Sub(env.StoredAt) > c.ttl {
		return false, ErrExpired
	}
	if err := json.Unmarshal(env.Value, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, replacing any previous entry.
func (c *Cache) Set(key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{StoredAt: c.now(), Value: value})
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache whose keys are prefixed with prefix.
// Namespaces nest: c.Namespace("a:").Namespace("b:") uses "a:b:".
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix, now: c.now}
}

// Clear removes every entry in the cache directory, across namespaces.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
