package graph_test

import (
	"fmt"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

func ExampleApplyPositions() {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "web", Data: graph.NodeData{Label: "Frontend"}},
			{ID: "api", Data: graph.NodeData{Label: "API"}},
		},
		Edges: []graph.Edge{{Source: "web", Target: "api"}},
	}

	nodes, edges := graph.LayoutInput(g, sizing.Default)
	res, err := layout.Layout(nodes, edges, layout.Options{Direction: layout.TopToBottom})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	g = graph.ApplyPositions(g, res, layout.TopToBottom)

	for _, n := range g.Nodes {
		fmt.Printf("%s at (%.0f, %.0f)\n", n.DisplayLabel(), n.Position.X, n.Position.Y)
	}
	// Output:
	// Frontend at (50, 50)
	// API at (50, 250)
}
