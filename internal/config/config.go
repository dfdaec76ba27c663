// Package config loads archgraph settings from a TOML file and the
// environment.
//
// Precedence, lowest first: [Default], the config file, ARCHGRAPH_*
// environment variables, then command-line flags (applied by the CLI).
package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	archerrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

// FileName is the config file looked up in the working directory.
const FileName = "archgraph.toml"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

// Classifier kinds.
const (
	ClassifierDirectory = "directory"
	ClassifierRemote    = "remote"
)

type Config struct {
	Layout     Layout     `toml:"layout"`
	Cache      Cache      `toml:"cache"`
	Classifier Classifier `toml:"classifier"`
	Server     Server     `toml:"server"`
	Log        Log        `toml:"log"`
}

// Layout holds default request options and engine spacing.
type Layout struct {
	Direction string `toml:"direction"`
	Strategy  string `toml:"strategy"`
	Sizing    string `toml:"sizing"`
	layout.Config
}

type Cache struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`
	// Namespace prefixes layout keys so environments can share a backend.
	Namespace string `toml:"namespace"`
	Redis     Redis  `toml:"redis"`
	Mongo     Mongo  `toml:"mongo"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type Classifier struct {
	Kind string `toml:"kind"`
	// Name labels the root node of directory classification.
	Name  string `toml:"name"`
	Depth int    `toml:"depth"`
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type Server struct {
	Addr string `toml:"addr"`
	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit    float64       `toml:"rate_limit"`
	Burst        int           `toml:"burst"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	BatchLimit   int           `toml:"batch_limit"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			Direction: string(pipeline.DefaultDirection),
			Strategy:  pipeline.DefaultStrategy,
			Sizing:    pipeline.DefaultSizing,
			Config:    layout.DefaultConfig(),
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
			Redis:   Redis{Addr: "localhost:6379", Prefix: "archgraph:"},
			Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: "archgraph", Collection: "layouts"},
		},
		Classifier: Classifier{Kind: ClassifierDirectory, Depth: 1},
		Server: Server{
			Addr:         ":8080",
			RateLimit:    20,
			Burst:        40,
			MaxBodyBytes: 4 << 20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			BatchLimit:   pipeline.DefaultBatchLimit,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path tries FileName in the working directory and silently skips it
// when absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, archerrors.New(archerrors.ErrCodeInvalidConfig,
				"%s: unknown keys: %s", filepath.Base(path), strings.Join(keys, ", "))
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, archerrors.Wrap(archerrors.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return Config{}, archerrors.Wrap(archerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from ARCHGRAPH_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ARCHGRAPH_DIRECTION":        &c.Layout.Direction,
		"ARCHGRAPH_STRATEGY":         &c.Layout.Strategy,
		"ARCHGRAPH_SIZING":           &c.Layout.Sizing,
		"ARCHGRAPH_CACHE_BACKEND":    &c.Cache.Backend,
		"ARCHGRAPH_CACHE_DIR":        &c.Cache.Dir,
		"ARCHGRAPH_CACHE_NAMESPACE":  &c.Cache.Namespace,
		"ARCHGRAPH_REDIS_ADDR":       &c.Cache.Redis.Addr,
		"ARCHGRAPH_REDIS_PASSWORD":   &c.Cache.Redis.Password,
		"ARCHGRAPH_MONGO_URI":        &c.Cache.Mongo.URI,
		"ARCHGRAPH_MONGO_DATABASE":   &c.Cache.Mongo.Database,
		"ARCHGRAPH_CLASSIFIER":       &c.Classifier.Kind,
		"ARCHGRAPH_CLASSIFIER_URL":   &c.Classifier.URL,
		"ARCHGRAPH_CLASSIFIER_TOKEN": &c.Classifier.Token,
		"ARCHGRAPH_SERVER_ADDR":      &c.Server.Addr,
		"ARCHGRAPH_LOG_LEVEL":        &c.Log.Level,
	}
	for _, name := range slices.Sorted(maps.Keys(str)) {
		if v, ok := lookup(name); ok {
			*str[name] = v
		}
	}

	if v, ok := lookup("ARCHGRAPH_CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return archerrors.Wrap(archerrors.ErrCodeInvalidConfig, err, "ARCHGRAPH_CACHE_TTL")
		}
		c.Cache.TTL = d
	}
	if v, ok := lookup("ARCHGRAPH_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return archerrors.Wrap(archerrors.ErrCodeInvalidConfig, err, "ARCHGRAPH_RATE_LIMIT")
		}
		c.Server.RateLimit = f
	}
	return nil
}

// Validate checks every enumerated field and bound.
func (c Config) Validate() error {
	if _, err := layout.ParseDirection(c.Layout.Direction); err != nil {
		return err
	}
	if _, err := layout.StrategyByName(c.Layout.Strategy); err != nil {
		return err
	}
	if _, ok := sizing.ByName(c.Layout.Sizing); !ok {
		return invalid("layout.sizing %q: want default or compact", c.Layout.Sizing)
	}
	if err := c.Layout.Config.Validate(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return invalid("cache.redis.addr is required for the redis backend")
		}
	case CacheMongo:
		if c.Cache.Mongo.URI == "" || c.Cache.Mongo.Database == "" {
			return invalid("cache.mongo.uri and cache.mongo.database are required for the mongo backend")
		}
	default:
		return invalid("cache.backend %q: want none, file, redis or mongo", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache.ttl must not be negative")
	}

	switch c.Classifier.Kind {
	case ClassifierDirectory:
		if c.Classifier.Depth < 0 {
			return invalid("classifier.depth must not be negative")
		}
	case ClassifierRemote:
		if c.Classifier.URL == "" {
			return invalid("classifier.url is required for the remote classifier")
		}
	default:
		return invalid("classifier.kind %q: want directory or remote", c.Classifier.Kind)
	}

	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return invalid("server.rate_limit and server.burst must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return archerrors.New(archerrors.ErrCodeInvalidConfig, format, args...)
}

// Options returns the pipeline defaults configured under [layout].
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Direction: c.Layout.Direction,
		Strategy:  c.Layout.Strategy,
		Sizing:    c.Layout.Sizing,
		Config:    c.Layout.Config,
	}
}
