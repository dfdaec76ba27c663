// Package classify turns a repository file list into an architecture graph.
//
// A [Classifier] groups files into components and connects them. The engine
// ships two implementations:
//
//   - [Directory]: a deterministic heuristic grouping files by their leading
//     path segments, used offline and in tests
//   - [Remote]: delegates to an external classification service over HTTP
//
// Classifiers only decide nodes, edges and node data; positions are assigned
// later by the layout engine.
package classify

import (
	"context"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// Classifier groups files into an architecture graph.
type Classifier interface {
	Classify(ctx context.Context, files []string) (graph.Graph, error)
}

// Func adapts a function to the [Classifier] interface.
type Func func(ctx context.Context, files []string) (graph.Graph, error)

// Classify implements [Classifier].
func (f Func) Classify(ctx context.Context, files []string) (graph.Graph, error) {
	return f(ctx, files)
}
