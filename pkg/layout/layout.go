package layout

import (
	"context"
	"fmt"
	"slices"
)

// Layout positions nodes using edges and opts. See [LayoutContext].
func Layout(nodes []Node, edges []Edge, opts Options) (*Result, error) {
	return LayoutContext(context.Background(), nodes, edges, opts)
}

// LayoutContext validates the input, runs the selected strategy and returns
// the nodes in input order with Position set to the top-left corner.
//
// Nodes are never mutated. Edges whose endpoints are not both known are
// dropped before placement.
func LayoutContext(ctx context.Context, nodes []Node, edges []Edge, opts Options) (*Result, error) {
	if opts.Direction == "" {
		opts.Direction = TopToBottom
	}
	opts.Config = opts.Config.WithDefaults()
	if opts.Strategy == nil {
		opts.Strategy = Layered{}
	}
	if err := validate(nodes, opts); err != nil {
		return nil, err
	}

	res := &Result{
		Nodes:    make([]Node, len(nodes)),
		Ranks:    make(map[string]int, len(nodes)),
		Orders:   make(map[string]int, len(nodes)),
		Strategy: opts.Strategy.Name(),
	}
	if len(nodes) == 0 {
		return res, nil
	}

	in := Input{
		Nodes:     slices.Clone(nodes),
		Edges:     knownEdges(nodes, edges),
		Direction: opts.Direction,
		Config:    opts.Config,
	}
	p, err := opts.Strategy.Place(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", opts.Strategy.Name(), err)
	}

	for i, n := range nodes {
		c, ok := p.Centers[n.ID]
		if !ok {
			return nil, fmt.Errorf("%s layout: node %q was not placed", opts.Strategy.Name(), n.ID)
		}
		pos := Point{X: c.X - n.Width/2, Y: c.Y - n.Height/2}
		n.Position = &pos
		res.Nodes[i] = n
		res.Width = max(res.Width, pos.X+n.Width+opts.Config.MarginX)
		res.Height = max(res.Height, pos.Y+n.Height+opts.Config.MarginY)
	}
	res.Ranks = p.Ranks
	res.Orders = p.Orders
	res.ReversedEdges = p.Reversed
	res.Crossings = p.Crossings
	return res, nil
}

func knownEdges(nodes []Node, edges []Edge) []Edge {
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		_, okS := known[e.Source]
		_, okT := known[e.Target]
		if okS && okT {
			out = append(out, e)
		}
	}
	return out
}
