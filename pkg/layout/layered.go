package layout

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/archgraph/pkg/dag"
	"github.com/matzehuels/archgraph/pkg/dag/order"
	"github.com/matzehuels/archgraph/pkg/dag/transform"
)

// Layered is the built-in layered (Sugiyama-style) strategy.
//
// Each weakly connected component is ranked and ordered on its own. Within a
// component, rank r occupies a band as deep as its deepest node; nodes of a
// rank are laid out in order with NodeSeparation between them and the rank is
// centered on the component's widest rank. Virtual nodes created for long
// edges take no space. Components are packed in order of their smallest node
// ID, NodeSeparation apart.
type Layered struct {
	// Orderer overrides crossing reduction. Nil means order.Barycenter with
	// Config.Passes sweeps.
	Orderer order.Orderer
}

// Name implements [Strategy].
func (Layered) Name() string { return StrategyLayered }

// Place implements [Strategy].
func (l Layered) Place(ctx context.Context, in Input) (*Placement, error) {
	orderer := l.Orderer
	if orderer == nil {
		orderer = order.Barycenter{Passes: in.Config.Passes}
	}

	sizes := make(map[string]Node, len(in.Nodes))
	ids := make([]string, len(in.Nodes))
	for i, n := range in.Nodes {
		sizes[n.ID] = n
		ids[i] = n.ID
	}
	pairs := make([][2]string, len(in.Edges))
	for i, e := range in.Edges {
		pairs[i] = [2]string{e.Source, e.Target}
	}
	comps := transform.Components(ids, pairs)

	compOf := make(map[string]int, len(ids))
	for ci, comp := range comps {
		for _, id := range comp {
			compOf[id] = ci
		}
	}
	compEdges := make([][]Edge, len(comps))
	for _, e := range sortedEdges(in.Edges) {
		ci := compOf[e.Source]
		compEdges[ci] = append(compEdges[ci], e)
	}

	p := &Placement{
		Centers: make(map[string]Point, len(ids)),
		Ranks:   make(map[string]int, len(ids)),
		Orders:  make(map[string]int, len(ids)),
	}
	geo := axes{dir: in.Direction, cfg: in.Config}
	rankCount := make(map[int]int)
	orderStart := 0.0

	for ci, comp := range comps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g, err := buildComponent(comp, compEdges[ci])
		if err != nil {
			return nil, err
		}
		prep := transform.Prepare(g)
		for _, e := range prep.Reversed {
			p.Reversed = append(p.Reversed, Edge{Source: e.From, Target: e.To})
		}
		orders := orderer.OrderRows(g)
		p.Crossings += dag.CountCrossings(g, orders)

		rows := g.RowIDs()
		depth := make(map[int]float64, len(rows))
		span := make(map[int]float64, len(rows))
		compSpan := 0.0
		for _, r := range rows {
			count := 0
			for _, id := range orders[r] {
				if n, _ := g.Node(id); n.IsVirtual() {
					continue
				}
				depth[r] = max(depth[r], geo.rankExtent(sizes[id]))
				span[r] += geo.orderExtent(sizes[id])
				count++
			}
			if count > 1 {
				span[r] += float64(count-1) * in.Config.NodeSeparation
			}
			compSpan = max(compSpan, span[r])
		}

		band := 0.0
		for _, r := range rows {
			cursor := orderStart + (compSpan-span[r])/2
			for _, id := range orders[r] {
				if n, _ := g.Node(id); n.IsVirtual() {
					continue
				}
				ext := geo.orderExtent(sizes[id])
				p.Centers[id] = geo.point(cursor+ext/2, band+depth[r]/2)
				p.Ranks[id] = r
				p.Orders[id] = rankCount[r]
				rankCount[r]++
				cursor += ext + in.Config.NodeSeparation
			}
			band += depth[r] + in.Config.RankSeparation
		}
		orderStart += compSpan + in.Config.NodeSeparation
	}
	return p, nil
}

// buildComponent creates a rank graph with nodes in ID order.
func buildComponent(ids []string, edges []Edge) (*dag.DAG, error) {
	g := dag.New()
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func sortedEdges(edges []Edge) []Edge {
	out := slices.Clone(edges)
	slices.SortStableFunc(out, func(a, b Edge) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	return out
}

// axes maps the rank axis and the order axis onto x and y.
type axes struct {
	dir Direction
	cfg Config
}

func (a axes) rankExtent(n Node) float64 {
	if a.dir == LeftToRight {
		return n.Width
	}
	return n.Height
}

func (a axes) orderExtent(n Node) float64 {
	if a.dir == LeftToRight {
		return n.Height
	}
	return n.Width
}

func (a axes) point(orderPos, rankPos float64) Point {
	if a.dir == LeftToRight {
		return Point{X: a.cfg.MarginX + rankPos, Y: a.cfg.MarginY + orderPos}
	}
	return Point{X: a.cfg.MarginX + orderPos, Y: a.cfg.MarginY + rankPos}
}
