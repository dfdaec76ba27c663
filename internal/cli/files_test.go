package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"arch.json", "arch.layout.json"},
		{"dir/arch.yaml", "dir/arch.layout.yaml"},
		{"arch", "arch.layout.json"},
		{"a.b.yml", "a.b.layout.yml"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.in); got != tt.want {
			t.Errorf("defaultOutput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteGraph(t *testing.T) {
	dir := t.TempDir()
	g := graph.Graph{Nodes: []graph.Node{{ID: "a"}}}

	path := filepath.Join(dir, "out.yaml")
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := writeGraph(g, path, nil, ""); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "- id: a") {
		t.Errorf("expected YAML output, got:\n%s", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	var buf bytes.Buffer
	if err := writeGraph(g, stdio, &buf, graph.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"id": "a"`) {
		t.Errorf("expected JSON on stdout, got:\n%s", buf.String())
	}
}

func TestWriteGraphErrors(t *testing.T) {
	dir := t.TempDir()
	g := graph.Graph{Nodes: []graph.Node{{ID: "a"}}}
	writeFile(t, filepath.Join(dir, "file"), "x")
	if err := os.Mkdir(filepath.Join(dir, "taken.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		code    errors.Code
		invalid bool
	}{
		{"missing parent", filepath.Join(dir, "missing", "out.json"), errors.ErrCodeInvalidPath, true},
		{"parent is a file", filepath.Join(dir, "file", "out.json"), errors.ErrCodeInvalidPath, true},
		{"rename onto directory", filepath.Join(dir, "taken.json"), errors.ErrCodeIO, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeGraph(g, tt.path, nil, "")
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("writeGraph() code = %v, want %v (err %v)", got, tt.code, err)
			}
			if errors.IsInvalid(err) != tt.invalid {
				t.Errorf("IsInvalid() = %v, want %v", errors.IsInvalid(err), tt.invalid)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWalkFiles(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{
		"go.mod",
		".env",
		"cmd/app/main.go",
		"pkg/util/util.go",
		".github/workflows/ci.yml",
		"vendor/x/x.go",
		"web/node_modules/react/index.js",
		"web/src/app.tsx",
	} {
		writeFile(t, filepath.Join(root, f), "x")
	}

	got, err := walkFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cmd/app/main.go", "go.mod", "pkg/util/util.go", "web/src/app.tsx"}
	if !slices.Equal(got, want) {
		t.Errorf("walkFiles() = %v, want %v", got, want)
	}
}

func TestReadFileList(t *testing.T) {
	in := "a/b.go\n\n  # comment\n c/d.go  \r\n#x\ne.go"
	got, err := readFileList(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/b.go", "c/d.go", "e.go"}
	if !slices.Equal(got, want) {
		t.Errorf("readFileList() = %v, want %v", got, want)
	}
}
