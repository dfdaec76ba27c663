package graph

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/sizing"
)

func sampleGraph() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "api", Type: TypeGroup, Data: NodeData{Label: "API", Files: []string{"api/a.go", "api/b.go"}}},
			{ID: "db", Type: TypeGroup, Data: NodeData{
				Label: "Storage",
				Files: []string{"db/1.sql", "db/2.sql", "db/3.sql", "db/4.sql", "db/5.sql", "db/6.sql"},
				Meta:  map[string]any{"engine": "postgres"},
			}},
		},
		Edges: []Edge{{ID: EdgeID("api", "db"), Source: "api", Target: "db", Label: "queries"}},
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := sampleGraph()
	g.Nodes[0].Position = &layout.Point{X: 50, Y: 50}

	for _, name := range []string{"graph.json", "graph.yaml", "graph.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(g, path); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, g) {
				t.Errorf("ReadFile() = %+v, want %+v", got, g)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestUnmarshal(t *testing.T) {
	data := `{"nodes":[{"id":"a","data":{"label":"A"}},{"id":"b","data":{}}],"edges":[{"source":"a","target":"b"}],"direction":"LR"}`

	g, err := Unmarshal([]byte(data), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 || g.Direction != "LR" {
		t.Errorf("Unmarshal() = %+v", g)
	}
	if g.Nodes[1].DisplayLabel() != "b" {
		t.Errorf("DisplayLabel() = %q, want %q", g.Nodes[1].DisplayLabel(), "b")
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	if _, err := Unmarshal([]byte("{"), FormatJSON); err == nil {
		t.Error("Unmarshal() error = nil, want error")
	}
	if _, err := Unmarshal([]byte("nodes: [\n"), FormatYAML); err == nil {
		t.Error("Unmarshal(yaml) error = nil, want error")
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want not-exist", err)
	}
}

func TestLayoutInput(t *testing.T) {
	nodes, edges := LayoutInput(sampleGraph(), sizing.Default)

	want := []layout.Node{
		{ID: "api", Width: 280, Height: 100},
		{ID: "db", Width: 280, Height: 130},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("nodes = %v, want %v", nodes, want)
	}
	if len(edges) != 1 || edges[0] != (layout.Edge{Source: "api", Target: "db"}) {
		t.Errorf("edges = %v", edges)
	}
}

func TestApplyPositions(t *testing.T) {
	g := sampleGraph()
	nodes, edges := LayoutInput(g, nil)
	res, err := layout.Layout(nodes, edges, layout.Options{Direction: layout.LeftToRight})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	out := ApplyPositions(g, res, layout.LeftToRight)

	if out.Direction != "LR" {
		t.Errorf("Direction = %q, want LR", out.Direction)
	}
	pos := Positions(out)
	if len(pos) != 2 {
		t.Fatalf("positions = %v, want 2", pos)
	}
	if pos["api"].X >= pos["db"].X {
		t.Errorf("api.X = %v, db.X = %v; want api left of db", pos["api"].X, pos["db"].X)
	}
	for _, n := range g.Nodes {
		if n.Position != nil {
			t.Errorf("input node %q was mutated", n.ID)
		}
	}
}

func TestClone(t *testing.T) {
	g := sampleGraph()
	c := g.Clone()
	c.Nodes[1].Data.Files[0] = "changed"
	c.Nodes[1].Data.Meta["engine"] = "mysql"

	if g.Nodes[1].Data.Files[0] == "changed" || g.Nodes[1].Data.Meta["engine"] != "postgres" {
		t.Error("Clone() shares data with the original")
	}
	if !strings.HasPrefix(c.Edges[0].ID, "api") {
		t.Errorf("edge ID = %q", c.Edges[0].ID)
	}
}
