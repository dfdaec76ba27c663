package transform

import (
	"cmp"
	"slices"
)

// Components groups ids into weakly connected components using the given
// edges. Edges whose endpoints are not both in ids are ignored.
//
// Each component is sorted by ID and components are ordered by their smallest
// ID, so the result depends only on the node set and the edge set.
func Components(ids []string, edges [][2]string) [][]string {
	parent := make(map[string]string, len(ids))
	for _, id := range ids {
		parent[id] = id
	}

	var find func(string) string
	find = func(x string) string {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, e := range edges {
		_, okA := parent[e[0]]
		_, okB := parent[e[1]]
		if !okA || !okB {
			continue
		}
		ra, rb := find(e[0]), find(e[1])
		if ra == rb {
			continue
		}
		// Keep the smaller ID as root so roots are stable.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	groups := make(map[string][]string)
	for _, id := range ids {
		root := find(id)
		groups[root] = append(groups[root], id)
	}

	out := make([][]string, 0, len(groups))
	for _, members := range groups {
		slices.Sort(members)
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []string) int { return cmp.Compare(a[0], b[0]) })
	return out
}
