package transform

import "github.com/matzehuels/archgraph/pkg/dag"

// Result reports what [Prepare] changed.
type Result struct {
	// SelfLoopsRemoved is the number of self-loop edges dropped.
	SelfLoopsRemoved int

	// Reversed lists the back edges reversed to break cycles, in their
	// original direction. Empty when the input was acyclic.
	Reversed []dag.Edge

	// VirtualsAdded is the number of virtual nodes inserted for long edges.
	VirtualsAdded int

	// MaxRow is the deepest rank after layering.
	MaxRow int
}

// Prepare brings g into canonical layered form: self-loops removed, cycles
// broken, rows assigned, long edges subdivided. Afterwards g.Validate()
// returns nil.
func Prepare(g *dag.DAG) Result {
	var res Result
	res.SelfLoopsRemoved = RemoveSelfLoops(g)
	res.Reversed = BreakCycles(g)
	res.MaxRow = AssignLayers(g)
	res.VirtualsAdded = Subdivide(g)
	return res
}
