// Package pipeline runs the classify → size → layout flow shared by the CLI
// and the API server.
//
// # Stages
//
//  1. Classify: a [classify.Classifier] turns a file list into a graph
//  2. Size: a [sizing.Sizer] gives every node its box from its file count
//  3. Layout: the layout engine places the boxes; positions are merged back
//     into a copy of the graph
//
// Layouts are cached by a content hash of the engine input and every option
// that affects placement. Cache failures are logged and ignored, so a broken
// backend only costs recomputation.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	runner.Classifier = classify.Directory{Depth: 2}
//	res, err := runner.Generate(ctx, pipeline.GenerateRequest{Files: files})
//	if err != nil {
//	    return err
//	}
//	_ = graph.WriteFile(res.Graph, "architecture.json")
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

// Defaults shared by the CLI, the API and the config file.
const (
	DefaultDirection = layout.TopToBottom
	DefaultStrategy  = layout.StrategyLayered
	DefaultSizing    = "default"

	// DefaultBatchLimit bounds concurrent layouts in [Runner.RelayoutBatch].
	DefaultBatchLimit = 4
)

// Options selects how a graph is laid out. Zero values pick the defaults.
type Options struct {
	Direction string `json:"direction,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	// Sizing names a sizing policy ("default", "compact"). Empty uses the
	// runner's Sizer.
	Sizing string `json:"sizing,omitempty"`
	// Config overrides the runner's layout config field by field; zero
	// fields keep the runner's values.
	Config layout.Config `json:"config,omitzero"`
	// Refresh skips the cache read; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// resolved holds Options after validation and defaulting.
type resolved struct {
	dir      layout.Direction
	strategy layout.Strategy
	sizer    sizing.Sizer
	config   layout.Config
	refresh  bool
}

func (r *Runner) resolve(opts Options) (resolved, error) {
	dir, err := layout.ParseDirection(opts.Direction)
	if err != nil {
		return resolved{}, err
	}
	strategy, err := layout.StrategyByName(opts.Strategy)
	if err != nil {
		return resolved{}, err
	}

	out := resolved{dir: dir, strategy: strategy, refresh: opts.Refresh}

	name := strings.ToLower(strings.TrimSpace(opts.Sizing))
	if name == "" && r.Sizer != nil {
		out.sizer = r.Sizer
	} else {
		s, ok := sizing.ByName(name)
		if !ok {
			return resolved{}, errors.New(errors.ErrCodeInvalidConfig, "unknown sizing policy %q", opts.Sizing)
		}
		out.sizer = s
	}

	out.config = opts.Config.Merge(r.Config).WithDefaults()
	return out, nil
}

func (o resolved) keyOpts() cache.LayoutKeyOpts {
	// Sizers are plain values, so their Go syntax identifies them.
	return cache.LayoutKeyOpts{
		Direction: o.dir.String(),
		Strategy:  o.strategy.Name(),
		Sizing:    fmt.Sprintf("%#v", o.sizer),
		Config:    o.config,
	}
}

// GenerateRequest asks for a graph built from a file list.
type GenerateRequest struct {
	Files []string
	Options
}

// RelayoutRequest asks for new positions on an existing graph.
type RelayoutRequest struct {
	Graph graph.Graph
	Options
}

// LayoutRequest is raw engine input.
type LayoutRequest struct {
	Nodes []layout.Node
	Edges []layout.Edge
	Options
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Graph is the input graph (or the classified one) with positions and
	// direction set. It is empty for raw layout requests.
	Graph  graph.Graph
	Layout *layout.Result
	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
	Stats    Stats
}

// Stats records stage timings.
type Stats struct {
	ClassifyTime time.Duration `json:"classifyTime"`
	LayoutTime   time.Duration `json:"layoutTime"`
}
