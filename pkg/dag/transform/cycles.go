package transform

import (
	"slices"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// RemoveSelfLoops deletes every edge whose endpoints coincide and returns how
// many were removed.
func RemoveSelfLoops(g *dag.DAG) int {
	removed := 0
	for _, e := range g.Edges() {
		if e.From == e.To && g.RemoveEdge(e.From, e.To) {
			removed++
		}
	}
	return removed
}

// BreakCycles makes g acyclic by reversing DFS back edges and returns the
// edges it reversed, in the caller's original direction.
//
// The search starts from the sources in insertion order, then from every node
// still unvisited, and visits children in ascending ID order, so the chosen
// back edges depend only on the graph. Each reversed edge is re-added as
// To→From with Reversed set. Self-loops must be removed first with
// [RemoveSelfLoops]; a self-loop left in place is reported as a back edge and
// stays a self-loop.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		children := slices.Clone(g.Children(id))
		slices.Sort(children)
		for _, child := range children {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: id, To: child})
			}
		}
		color[id] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		if e.From == e.To {
			continue
		}
		if g.RemoveEdge(e.From, e.To) {
			_ = g.AddEdge(dag.Edge{From: e.To, To: e.From, Reversed: true})
		}
	}
	return backEdges
}
