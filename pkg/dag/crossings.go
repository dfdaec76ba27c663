package dag

import (
	"cmp"
	"slices"
)

// CountCrossings returns the total number of edge crossings for the given row
// orderings, summed over every pair of consecutive rows. orders maps a row
// index to node IDs in order-axis sequence; missing rows count as empty.
//
//	orders := map[int][]string{
//	    0: {"api", "worker"},
//	    1: {"db", "queue"},
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	crossings := 0
	for _, r := range g.RowIDs() {
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts crossings between edges running from upper to
// lower. Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2); after sorting edges by source position this is the
// number of inversions among target positions, counted with a Fenwick tree.
// Parallel edges are counted once per edge.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)
	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}

	slices.SortFunc(spans, func(a, b span) int {
		if c := cmp.Compare(a.from, b.from); c != 0 {
			return c
		}
		return cmp.Compare(a.to, b.to)
	})

	tree := make([]int, len(lower)+1)
	crossings := 0
	for seen, s := range spans {
		atMost := 0
		for q := s.to + 1; q > 0; q -= q & -q {
			atMost += tree[q]
		}
		crossings += seen - atMost
		for q := s.to + 1; q < len(tree); q += q & -q {
			tree[q]++
		}
	}
	return crossings
}
