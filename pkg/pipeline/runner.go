package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/classify"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

const cacheKeyType = "layout"

// Runner executes pipeline requests with caching.
//
// A Runner holds no per-request state; one instance can serve concurrent
// requests as long as its fields are not modified meanwhile.
type Runner struct {
	Cache cache.Cache
	Keyer cache.Keyer
	// Classifier is used by Generate. Nil means classify.Directory{}.
	Classifier classify.Classifier
	// Sizer sizes nodes when a request names no sizing policy.
	Sizer sizing.Sizer
	// Config is the layout config for requests that carry none.
	Config layout.Config
	// TTL is how long layouts stay cached.
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Sizer:  sizing.Default,
		Config: layout.DefaultConfig(),
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// Generate classifies req.Files and lays out the resulting graph.
func (r *Runner) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if len(req.Files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no files to classify")
	}
	// Fail on bad options before paying for classification.
	if _, err := r.resolve(req.Options); err != nil {
		return nil, err
	}

	c := r.Classifier
	if c == nil {
		c = classify.Directory{}
	}
	name := fmt.Sprintf("%T", c)
	hooks := observability.Layout()
	hooks.OnClassifyStart(ctx, name, len(req.Files))
	start := time.Now()
	g, err := c.Classify(ctx, req.Files)
	elapsed := time.Since(start)
	hooks.OnClassifyComplete(ctx, name, len(g.Nodes), elapsed, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("classified files", "files", len(req.Files), "nodes", len(g.Nodes), "duration", elapsed)

	res, err := r.Relayout(ctx, RelayoutRequest{Graph: g, Options: req.Options})
	if err != nil {
		return nil, err
	}
	res.Stats.ClassifyTime = elapsed
	return res, nil
}

// Relayout sizes every node from its data, lays the graph out and returns a
// copy with positions set. Existing positions are ignored, so running
// Relayout on its own output yields the same positions.
func (r *Runner) Relayout(ctx context.Context, req RelayoutRequest) (*Result, error) {
	o, err := r.resolve(req.Options)
	if err != nil {
		return nil, err
	}
	nodes, edges := graph.LayoutInput(req.Graph, o.sizer)

	start := time.Now()
	res, hit, err := r.layout(ctx, nodes, edges, o)
	if err != nil {
		return nil, err
	}
	return &Result{
		Graph:    graph.ApplyPositions(req.Graph, res, o.dir),
		Layout:   res,
		CacheHit: hit,
		Stats:    Stats{LayoutTime: time.Since(start)},
	}, nil
}

// Layout runs the engine on raw input.
func (r *Runner) Layout(ctx context.Context, req LayoutRequest) (*Result, error) {
	o, err := r.resolve(req.Options)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, hit, err := r.layout(ctx, req.Nodes, req.Edges, o)
	if err != nil {
		return nil, err
	}
	return &Result{
		Layout:   res,
		CacheHit: hit,
		Stats:    Stats{LayoutTime: time.Since(start)},
	}, nil
}

type layoutInput struct {
	Nodes []layout.Node `json:"nodes"`
	Edges []layout.Edge `json:"edges"`
}

func (r *Runner) layout(ctx context.Context, nodes []layout.Node, edges []layout.Edge, o resolved) (*layout.Result, bool, error) {
	inputHash, err := cache.HashJSON(layoutInput{Nodes: nodes, Edges: edges})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode layout input")
	}
	key := r.Keyer.LayoutKey(inputHash, o.keyOpts())
	cacheHooks := observability.Cache()

	if !o.refresh {
		if res, ok := r.cached(ctx, key); ok {
			cacheHooks.OnCacheHit(ctx, cacheKeyType)
			r.Logger.Debug("layout cache hit", "key", key)
			return res, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, cacheKeyType)
	}

	hooks := observability.Layout()
	name := o.strategy.Name()
	hooks.OnLayoutStart(ctx, name, len(nodes))
	start := time.Now()
	res, err := layout.LayoutContext(ctx, nodes, edges, layout.Options{
		Direction: o.dir,
		Config:    o.config,
		Strategy:  o.strategy,
	})
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, name, len(nodes), elapsed, err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("computed layout",
		"strategy", name,
		"nodes", len(nodes),
		"crossings", res.Crossings,
		"duration", elapsed)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			cacheHooks.OnCacheError(ctx, cacheKeyType, "set", err)
			r.Logger.Warn("layout cache write failed", "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return res, false, nil
}

// cached returns the stored layout for key. Backend and decode failures
// count as misses.
func (r *Runner) cached(ctx context.Context, key string) (*layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, cacheKeyType, "get", err)
		r.Logger.Warn("layout cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Warn("discarding corrupt cached layout", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return &res, true
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
