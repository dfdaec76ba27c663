package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/classify"
	archerrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
direction = "LR"
sizing = "compact"
node_separation = 40
rank_separation = 60

[cache]
backend = "redis"
ttl = "90m"

[cache.redis]
addr = "redis:6379"
db = 2

[classifier]
kind = "directory"
depth = 2

[server]
rate_limit = 5.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "LR", cfg.Layout.Direction)
	assert.Equal(t, "compact", cfg.Layout.Sizing)
	assert.Equal(t, 40.0, cfg.Layout.NodeSeparation)
	assert.Equal(t, 60.0, cfg.Layout.RankSeparation)
	assert.Equal(t, float64(layout.DefaultMarginX), cfg.Layout.MarginX, "unset keys keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, "archgraph:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, 2, cfg.Classifier.Depth)
	assert.Equal(t, 5.5, cfg.Server.RateLimit)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[layout]\nspacing = 3\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, archerrors.Is(err, archerrors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "layout.spacing")
}

func TestLoad_Syntax(t *testing.T) {
	path := writeConfig(t, "[layout\n")
	_, err := Load(path)
	assert.True(t, archerrors.Is(err, archerrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, archerrors.Is(err, archerrors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, "[layout]\ndirection = \"LR\"\n")
	t.Setenv("ARCHGRAPH_DIRECTION", "TB")
	t.Setenv("ARCHGRAPH_CACHE_BACKEND", "none")
	t.Setenv("ARCHGRAPH_CACHE_TTL", "5m")
	t.Setenv("ARCHGRAPH_RATE_LIMIT", "0")
	t.Setenv("ARCHGRAPH_CACHE_NAMESPACE", "ci:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TB", cfg.Layout.Direction)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 0.0, cfg.Server.RateLimit)
	assert.Equal(t, "ci:", cfg.Cache.Namespace)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("ARCHGRAPH_CACHE_TTL", "soon")
	_, err := Load(writeConfig(t, ""))
	assert.True(t, archerrors.Is(err, archerrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   archerrors.Code
	}{
		{"direction", func(c *Config) { c.Layout.Direction = "XY" }, archerrors.ErrCodeInvalidDirection},
		{"strategy", func(c *Config) { c.Layout.Strategy = "force" }, archerrors.ErrCodeInvalidStrategy},
		{"sizing", func(c *Config) { c.Layout.Sizing = "huge" }, archerrors.ErrCodeInvalidConfig},
		{"separation", func(c *Config) { c.Layout.NodeSeparation = -1 }, archerrors.ErrCodeInvalidConfig},
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }, archerrors.ErrCodeInvalidConfig},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.Redis.Addr = "" }, archerrors.ErrCodeInvalidConfig},
		{"mongo uri", func(c *Config) { c.Cache.Backend = CacheMongo; c.Cache.Mongo.URI = "" }, archerrors.ErrCodeInvalidConfig},
		{"ttl", func(c *Config) { c.Cache.TTL = -time.Second }, archerrors.ErrCodeInvalidConfig},
		{"classifier", func(c *Config) { c.Classifier.Kind = "llm" }, archerrors.ErrCodeInvalidConfig},
		{"remote url", func(c *Config) { c.Classifier.Kind = ClassifierRemote }, archerrors.ErrCodeInvalidConfig},
		{"rate", func(c *Config) { c.Server.RateLimit = -1 }, archerrors.ErrCodeInvalidConfig},
		{"body", func(c *Config) { c.Server.MaxBodyBytes = 0 }, archerrors.ErrCodeInvalidConfig},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, archerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, archerrors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		cfg := Default()
		cfg.Cache.Backend = CacheNone
		c, err := cfg.OpenCache(ctx)
		require.NoError(t, err)
		assert.IsType(t, cache.NullCache{}, c)
	})

	t.Run("file", func(t *testing.T) {
		cfg := Default()
		cfg.Cache.Dir = t.TempDir()
		c, err := cfg.OpenCache(ctx)
		require.NoError(t, err)
		fc, ok := c.(*cache.FileCache)
		require.True(t, ok)
		assert.Equal(t, cfg.Cache.Dir, fc.Dir())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := Default()
		cfg.Cache.Backend = CacheRedis
		cfg.Cache.Redis.Addr = mr.Addr()
		cfg.Cache.Redis.Prefix = "t:"

		c, err := cfg.OpenCache(ctx)
		require.NoError(t, err)
		defer c.Close()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		assert.True(t, mr.Exists("t:k"))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := Default()
		cfg.Cache.Backend = CacheRedis
		cfg.Cache.Redis.Addr = addr
		_, err := cfg.OpenCache(ctx)
		assert.Error(t, err)
	})
}

func TestNewClassifier(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Depth = 3
	assert.Equal(t, classify.Directory{Depth: 3}, cfg.NewClassifier(nil))

	cfg.Classifier.Kind = ClassifierRemote
	cfg.Classifier.URL = "http://classifier.local/classify"
	r, ok := cfg.NewClassifier(nil).(*classify.Remote)
	require.True(t, ok)
	assert.Equal(t, "http://classifier.local/classify", r.URL)
}

func TestNewRunner(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = CacheNone
	cfg.Layout.Sizing = "compact"
	cfg.Layout.NodeSeparation = 10

	r, err := cfg.NewRunner(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.Config.NodeSeparation)
	assert.Equal(t, cfg.Cache.TTL, r.TTL)

	w, h := r.Sizer.Size(0)
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 60.0, h)
}

func TestNewRunner_Namespace(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = CacheNone

	r, err := cfg.NewRunner(context.Background(), nil)
	require.NoError(t, err)
	_, scoped := r.Keyer.(*cache.ScopedKeyer)
	assert.False(t, scoped)

	cfg.Cache.Namespace = "staging:"
	r, err = cfg.NewRunner(context.Background(), nil)
	require.NoError(t, err)
	k, ok := r.Keyer.(*cache.ScopedKeyer)
	require.True(t, ok)
	assert.Equal(t, "staging:", k.Prefix())
}
