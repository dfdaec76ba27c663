// Package pkg provides the core libraries for archgraph architecture layouts.
//
// # Overview
//
// archgraph turns an architecture graph (components of a repository and the
// dependencies between them) into a deterministic layered diagram. The same
// input always yields the same positions, so diagrams can be regenerated on
// every commit without churn. The pkg directory is organized into four areas:
//
//  1. [layout] and [dag] - The layout engine and its graph algorithms
//  2. [graph], [sizing] and [classify] - The caller-side graph model
//  3. [pipeline] - Orchestration (classify → size → layout)
//  4. [cache], [observability] and [httputil] - Infrastructure
//
// # Architecture
//
// The typical data flow through archgraph:
//
//	File list / graph file
//	         ↓
//	   [classify] → graph.Graph
//	         ↓
//	   [sizing] → box per node
//	         ↓
//	   [layout] → positions per node
//	         ↓
//	   graph.Graph with positions (JSON/YAML)
//
// # Package Organization
//
// ## Layout Engine
//
// [layout] - Places nodes on ranks. Cycles are broken, ranks are assigned by
// longest path, long edges are subdivided, crossings are reduced by
// barycenter sweeps, and disconnected components are packed side by side.
// The Graphviz strategy delegates placement to dot instead.
//
// [dag] - Directed graph with ranked nodes and subdivider support. Provides
// crossing counts used to compare orderings.
//
// [dag/transform] - Graph transformations: cycle breaking, longest-path
// layering, edge subdivision and component splitting. [transform.Prepare]
// runs the complete sequence.
//
// [dag/order] - Crossing reduction within ranks by the barycenter heuristic
// with deterministic tie-breaking.
//
// ## Graph Model
//
// [graph] - Serialization types for architecture graphs (JSON and YAML
// node-link format) and the conversion to engine input.
//
// [sizing] - Node size policies derived from the number of files in a node.
//
// [classify] - Classifiers that group a file list into components: by
// directory locally, or through a remote classification service.
//
// ## Infrastructure
//
// [pipeline] - The classify → size → layout flow used by the CLI and the API
// server. Ensures consistent behavior across both entry points.
//
// [cache] - Layout cache backends: file (CLI), Redis and MongoDB (server),
// and a null cache for tests and --no-cache.
//
// [observability] - Hooks for layout and cache events, with a Prometheus
// implementation in [observability/prometheus].
//
// [httputil] - HTTP client with retries, rate limiting and a response cache
// for remote classifiers.
//
// [errors] - Coded errors shared by every package and mapped to exit codes
// and HTTP statuses.
//
// [buildinfo] - Version information stamped at build time.
//
// # Common Workflows
//
// Lay out raw nodes:
//
//	nodes := []layout.Node{
//	    {ID: "api", Width: 280, Height: 100},
//	    {ID: "db", Width: 280, Height: 100},
//	}
//	edges := []layout.Edge{{Source: "api", Target: "db"}}
//	res, err := layout.Layout(nodes, edges, layout.Options{})
//
// Generate a graph from a file list:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	runner.Classifier = classify.Directory{Depth: 2}
//	res, err := runner.Generate(ctx, pipeline.GenerateRequest{Files: files})
//
// Re-layout an existing graph file:
//
//	g, _ := graph.ReadFile("architecture.json")
//	res, err := runner.Relayout(ctx, pipeline.RelayoutRequest{Graph: g})
//	_ = graph.WriteFile(res.Graph, "architecture.json")
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/dag/...                # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/layout
// [dag]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag/transform
// [dag/order]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag/order
// [transform.Prepare]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/dag/transform#Prepare
// [graph]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/graph
// [sizing]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/sizing
// [classify]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/classify
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/observability
// [observability/prometheus]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/observability/prometheus
// [httputil]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/archgraph/pkg/buildinfo
package pkg
