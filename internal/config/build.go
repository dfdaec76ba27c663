package config

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/classify"
	"github.com/matzehuels/archgraph/pkg/httputil"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

// OpenCache connects the configured layout cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheFile:
		dir := c.Cache.Dir
		if dir == "" {
			dir = cache.DefaultFileCacheDir()
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		r := c.Cache.Redis
		rc := cache.NewRedisCache(r.Addr, r.Password, r.DB, cache.WithPrefix(r.Prefix))
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		return rc, nil
	case CacheMongo:
		m := c.Cache.Mongo
		mc, err := cache.NewMongoCache(ctx, m.URI, m.Database, m.Collection)
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureIndexes(ctx); err != nil {
			mc.Close()
			return nil, err
		}
		return mc, nil
	}
	return cache.NewNullCache(), nil
}

// NewClassifier builds the configured classifier. httpCache may be nil.
func (c Config) NewClassifier(httpCache *httputil.Cache) classify.Classifier {
	if c.Classifier.Kind == ClassifierRemote {
		return classify.NewRemote(c.Classifier.URL, c.Classifier.Token, httpCache)
	}
	return classify.Directory{Name: c.Classifier.Name, Depth: c.Classifier.Depth}
}

// NewRunner opens the cache and assembles a pipeline runner. Remote
// classifier responses are cached on disk unless the cache backend is none.
func (c Config) NewRunner(ctx context.Context, logger *log.Logger) (*pipeline.Runner, error) {
	store, err := c.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(nil, c.Cache.Namespace)
	}
	r := pipeline.NewRunner(store, keyer, logger)

	var httpCache *httputil.Cache
	if c.Classifier.Kind == ClassifierRemote && c.Cache.Backend != CacheNone {
		if httpCache, err = httputil.NewCache("", c.Cache.TTL); err != nil {
			r.Logger.Warn("classifier response cache disabled", "err", err)
			httpCache = nil
		}
	}
	r.Classifier = c.NewClassifier(httpCache)
	if s, ok := sizing.ByName(c.Layout.Sizing); ok {
		r.Sizer = s
	}
	r.Config = c.Layout.Config
	r.TTL = c.Cache.TTL
	return r, nil
}
