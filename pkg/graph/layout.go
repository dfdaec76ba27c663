package graph

import (
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

// LayoutInput derives engine input from g, sizing every node from its
// current file list.
func LayoutInput(g Graph, sizer sizing.Sizer) ([]layout.Node, []layout.Edge) {
	if sizer == nil {
		sizer = sizing.Default
	}
	nodes := make([]layout.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		w, h := sizer.Size(len(n.Data.Files))
		nodes[i] = layout.Node{ID: n.ID, Width: w, Height: h}
	}
	edges := make([]layout.Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = layout.Edge{Source: e.Source, Target: e.Target}
	}
	return nodes, edges
}

// ApplyPositions returns a copy of g with positions taken from res and the
// direction set. Nodes missing from res keep their previous position.
func ApplyPositions(g Graph, res *layout.Result, dir layout.Direction) Graph {
	out := g.Clone()
	out.Direction = dir.String()
	pos := make(map[string]layout.Point, len(res.Nodes))
	for _, n := range res.Nodes {
		if n.Position != nil {
			pos[n.ID] = *n.Position
		}
	}
	for i := range out.Nodes {
		if p, ok := pos[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = &p
		}
	}
	return out
}

// Positions returns the position of every placed node by ID.
func Positions(g Graph) map[string]layout.Point {
	m := make(map[string]layout.Point, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Position != nil {
			m[n.ID] = *n.Position
		}
	}
	return m
}
