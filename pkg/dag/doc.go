// Package dag provides the rank graph used by the layout engine: a directed
// graph whose nodes carry a row (rank) assignment.
//
// # Overview
//
// The layout engine turns an arbitrary node/edge list into a layered drawing.
// While it works, it keeps a [DAG] per connected component: nodes are added in
// ascending ID order, edges in input order, and every query that returns a
// list returns it in a stable order. That stability is what makes the whole
// layout a pure function of its input.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "api"})
//	g.AddNode(dag.Node{ID: "db"})
//	g.AddEdge(dag.Edge{From: "api", To: "db"})
//
// Rows are assigned by [transform.AssignLayers] and long edges are split by
// [transform.Subdivide], after which [DAG.Validate] holds: the graph is
// acyclic and every edge connects consecutive rows.
//
// # Node Kinds
//
//   - [NodeKindRegular]: a node supplied by the caller
//   - [NodeKindVirtual]: a synthetic node standing in for one rank hop of a
//     long edge; it takes part in crossing reduction but occupies no space
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between
// consecutive rows with a Fenwick tree in O(E log V).
//
// # Concurrency
//
// A DAG is not safe for concurrent use. The layout engine builds a fresh DAG
// per call, so concurrent layouts of different graphs need no coordination.
//
// [transform.AssignLayers]: github.com/matzehuels/archgraph/pkg/dag/transform
// [transform.Subdivide]: github.com/matzehuels/archgraph/pkg/dag/transform
package dag
