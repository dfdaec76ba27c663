package order

import (
	"reflect"
	"testing"

	"github.com/matzehuels/archgraph/pkg/dag"
)

type node struct {
	id  string
	row int
}

func build(t *testing.T, nodes []node, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, n := range nodes {
		if err := g.AddNode(dag.Node{ID: n.id, Row: n.row}); err != nil {
			t.Fatalf("AddNode(%q) error = %v", n.id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	return g
}

func TestBarycenter_RemovesCrossing(t *testing.T) {
	g := build(t,
		[]node{{"a", 0}, {"b", 0}, {"x", 1}, {"y", 1}},
		[][2]string{{"a", "y"}, {"b", "x"}},
	)

	orders := Barycenter{}.OrderRows(g)

	if got := dag.CountCrossings(g, orders); got != 0 {
		t.Errorf("CountCrossings() = %d, want 0 (orders %v)", got, orders)
	}
	want := map[int][]string{0: {"a", "b"}, 1: {"y", "x"}}
	if !reflect.DeepEqual(orders, want) {
		t.Errorf("OrderRows() = %v, want %v", orders, want)
	}
}

func TestBarycenter_TiesByID(t *testing.T) {
	g := build(t,
		[]node{{"root", 0}, {"zeta", 1}, {"alpha", 1}, {"mid", 1}},
		[][2]string{{"root", "zeta"}, {"root", "alpha"}, {"root", "mid"}},
	)

	orders := Barycenter{}.OrderRows(g)

	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(orders[1], want) {
		t.Errorf("row 1 = %v, want %v", orders[1], want)
	}
}

func TestBarycenter_Complete(t *testing.T) {
	g := build(t,
		[]node{{"a", 0}, {"b", 0}, {"c", 0}, {"d", 1}, {"e", 1}, {"f", 2}},
		[][2]string{{"a", "e"}, {"c", "d"}, {"b", "d"}, {"d", "f"}, {"e", "f"}},
	)

	orders := Barycenter{Passes: 8}.OrderRows(g)

	seen := make(map[string]int)
	for _, ids := range orders {
		for _, id := range ids {
			seen[id]++
		}
	}
	if len(seen) != g.NodeCount() {
		t.Errorf("ordered %d nodes, want %d", len(seen), g.NodeCount())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %q appears %d times", id, n)
		}
	}
}

func TestBarycenter_NeverWorseThanInitial(t *testing.T) {
	g := build(t,
		[]node{{"a", 0}, {"b", 0}, {"c", 0}, {"x", 1}, {"y", 1}, {"z", 1}},
		[][2]string{{"a", "z"}, {"b", "y"}, {"c", "x"}, {"a", "x"}, {"c", "z"}},
	)
	initial := dag.CountCrossings(g, map[int][]string{0: {"a", "b", "c"}, 1: {"x", "y", "z"}})

	orders := Barycenter{Passes: 1}.OrderRows(g)

	if got := dag.CountCrossings(g, orders); got > initial {
		t.Errorf("CountCrossings() = %d, want <= %d", got, initial)
	}
}

func TestBarycenter_Deterministic(t *testing.T) {
	nodes := []node{{"a", 0}, {"b", 0}, {"c", 1}, {"d", 1}, {"e", 1}, {"f", 2}, {"g", 2}}
	edges := [][2]string{{"a", "d"}, {"a", "e"}, {"b", "c"}, {"c", "g"}, {"d", "f"}, {"e", "g"}, {"b", "e"}}

	first := Barycenter{}.OrderRows(build(t, nodes, edges))
	for i := 0; i < 20; i++ {
		got := Barycenter{}.OrderRows(build(t, nodes, edges))
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: OrderRows() = %v, want %v", i, got, first)
		}
	}
}

func TestBarycenter_SingleRow(t *testing.T) {
	g := build(t, []node{{"c", 0}, {"a", 0}, {"b", 0}}, nil)

	orders := Barycenter{}.OrderRows(g)

	want := map[int][]string{0: {"a", "b", "c"}}
	if !reflect.DeepEqual(orders, want) {
		t.Errorf("OrderRows() = %v, want %v", orders, want)
	}
}

func TestBarycenter_Empty(t *testing.T) {
	if got := (Barycenter{}).OrderRows(dag.New()); len(got) != 0 {
		t.Errorf("OrderRows(empty) = %v, want empty", got)
	}
}
