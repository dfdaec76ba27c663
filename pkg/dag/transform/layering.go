package transform

import "github.com/matzehuels/archgraph/pkg/dag"

// AssignLayers assigns every node the length of the longest path reaching it
// from a source, so that:
//   - Source nodes (no incoming edges) are at row 0
//   - Every edge points from a lower row to a strictly higher row
//   - A node at row k > 0 has at least one parent at row k-1
//
// Existing row assignments are overwritten. It returns the deepest row.
//
// # Algorithm
//
// Kahn's topological traversal: start with all in-degree-0 nodes in insertion
// order; when a node is dequeued, push each child to max(child, node+1) and
// enqueue children whose remaining in-degree drops to zero.
//
// # Cycles
//
// AssignLayers assumes an acyclic graph. Nodes on a cycle never reach
// in-degree zero and keep row 0; run [BreakCycles] first.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) int {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		inDegree[n.ID] = g.InDegree(n.ID)
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	maxRow := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		next := rows[curr] + 1
		for _, child := range g.Children(curr) {
			if next > rows[child] {
				rows[child] = next
				maxRow = max(maxRow, next)
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
	return maxRow
}
