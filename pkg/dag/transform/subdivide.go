package transform

import (
	"fmt"

	"github.com/matzehuels/archgraph/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// single-row edges through [dag.NodeKindVirtual] nodes:
//
//	Before: web (row 0) → db (row 3)
//	After:  web → ~web:1 → ~web:2 → db
//
// Virtual nodes keep the edge's source as MasterID and inherit the Reversed
// flag of the edge they replace. It returns the number of virtual nodes added.
//
// # Node IDs
//
// Virtual IDs have the form "~master:row". On a collision with an existing
// ID a numeric suffix is appended ("~web:1#2"), so caller IDs are never
// shadowed.
//
// Subdivide panics if it cannot add a node or edge, which only happens when g
// is modified concurrently.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	added := 0

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(src.ID, row)
			if err := g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindVirtual, MasterID: src.ID}); err != nil {
				panic(err)
			}
			mustAddEdge(g, dag.Edge{From: prev, To: id, Reversed: e.Reversed})
			prev = id
			added++
		}
		mustAddEdge(g, dag.Edge{From: prev, To: dst.ID, Reversed: e.Reversed})
	}
	return added
}

func mustAddEdge(g *dag.DAG, e dag.Edge) {
	if err := g.AddEdge(e); err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(master string, row int) string {
	prefix := fmt.Sprintf("~%s:%d", master, row)
	id := prefix
	for i := 2; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s#%d", prefix, i)
	}
}
