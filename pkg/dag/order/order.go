package order

import "github.com/matzehuels/archgraph/pkg/dag"

// Orderer arranges the nodes of each row of a layered graph.
type Orderer interface {
	// OrderRows returns, for every occupied row, the node IDs in their final
	// order. Every node of g appears exactly once.
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of down+up sweeps used when a Barycenter has
// Passes <= 0.
const DefaultPasses = 4
