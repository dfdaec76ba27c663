package order

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// Barycenter orders rows with the iterated barycenter heuristic.
type Barycenter struct {
	// Passes is the number of down+up sweep pairs. Zero or negative means
	// DefaultPasses.
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycenter) OrderRows(g *dag.DAG) map[int][]string {
	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		ids := dag.NodeIDs(g.NodesInRow(r))
		slices.Sort(ids)
		orders[r] = ids
	}
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		for i := 1; i < len(rows); i++ {
			orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i-1]], func(id string) []string {
				return g.ParentsInRow(id, rows[i-1])
			})
		}
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}

		for i := len(rows) - 2; i >= 0; i-- {
			orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i+1]], func(id string) []string {
				return g.ChildrenInRow(id, rows[i+1])
			})
		}
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

// sortByBarycenter returns row sorted by the mean index of each node's
// neighbors in ref. Nodes without neighbors keep their current index.
func sortByBarycenter(row, ref []string, neighbors func(string) []string) []string {
	refPos := dag.PosMap(ref)
	bary := make(map[string]float64, len(row))
	for i, id := range row {
		adj := neighbors(id)
		if len(adj) == 0 {
			bary[id] = float64(i)
			continue
		}
		sum := 0.0
		for _, n := range adj {
			sum += float64(refPos[n])
		}
		bary[id] = sum / float64(len(adj))
	}

	out := slices.Clone(row)
	slices.SortStableFunc(out, func(a, b string) int {
		if c := cmp.Compare(bary[a], bary[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := maps.Clone(orders)
	for r, ids := range out {
		out[r] = slices.Clone(ids)
	}
	return out
}
