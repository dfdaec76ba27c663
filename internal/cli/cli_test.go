package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
)

const chainGraph = `{
  "nodes": [
    {"id": "web", "data": {"label": "Web"}},
    {"id": "api", "data": {"label": "API"}},
    {"id": "db", "data": {"label": "Database"}}
  ],
  "edges": [
    {"source": "web", "target": "api"},
    {"source": "api", "target": "db"}
  ]
}`

// isolate points the file cache at a temporary directory and runs the test
// from an empty working directory, so no archgraph.toml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ARCHGRAPH_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func positions(t *testing.T, g graph.Graph) map[string]layout.Point {
	t.Helper()
	pos := graph.Positions(g)
	if len(pos) != len(g.Nodes) {
		t.Fatalf("%d of %d nodes have positions", len(pos), len(g.Nodes))
	}
	return pos
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)

	out, err := execute(t, "", "layout", input)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "Layout complete") || !strings.Contains(out, "arch.layout.json") {
		t.Errorf("unexpected output:\n%s", out)
	}

	g, err := graph.ReadFile(filepath.Join(dir, "arch.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]layout.Point{
		"web": {X: 50, Y: 50},
		"api": {X: 50, Y: 250},
		"db":  {X: 50, Y: 450},
	}
	for id, p := range positions(t, g) {
		if p != want[id] {
			t.Errorf("%s at %v, want %v", id, p, want[id])
		}
	}
	if g.Direction != "TB" {
		t.Errorf("direction = %q, want TB", g.Direction)
	}
}

func TestLayoutCommandIdempotent(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.yaml")
	writeFile(t, input, "nodes:\n  - id: a\n  - id: b\nedges:\n  - {source: a, target: b}\n")

	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	if _, err := execute(t, "", "layout", input, "-o", first, "-d", "LR"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "layout", first, "-o", second, "-d", "LR", "--no-cache"); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Errorf("re-layout changed the graph:\n%s\nvs\n%s", a, b)
	}
}

func TestLayoutCommandCache(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)

	out, err := execute(t, "", "layout", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("first run should compute the layout:\n%s", out)
	}

	out, err = execute(t, "", "layout", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should hit the cache:\n%s", out)
	}

	out, err = execute(t, "", "layout", input, "--refresh")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("--refresh should recompute:\n%s", out)
	}
}

func TestLayoutCommandStdio(t *testing.T) {
	isolate(t)

	out, err := execute(t, chainGraph, "layout", "-", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Unmarshal([]byte(out), graph.FormatJSON)
	if err != nil {
		t.Fatalf("stdout is not a graph: %v\n%s", err, out)
	}
	if got := positions(t, g)["db"]; got != (layout.Point{X: 50, Y: 450}) {
		t.Errorf("db at %v", got)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)
	writeFile(t, filepath.Join(dir, "broken.json"), "{nodes")
	writeFile(t, filepath.Join(dir, "dup.json"), `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"layout", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"malformed file", []string{"layout", filepath.Join(dir, "broken.json")}, errors.ErrCodeInvalidFormat},
		{"bad direction", []string{"layout", input, "-d", "XY"}, errors.ErrCodeInvalidDirection},
		{"bad strategy", []string{"layout", input, "-s", "force"}, errors.ErrCodeInvalidStrategy},
		{"bad sizing", []string{"layout", input, "--sizing", "huge"}, errors.ErrCodeInvalidConfig},
		{"duplicate node", []string{"layout", filepath.Join(dir, "dup.json"), "--no-cache"}, errors.ErrCodeInvalidNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := isolate(t)
	repo := filepath.Join(dir, "shop")
	for _, f := range []string{
		"README.md",
		"cmd/main.go",
		"internal/api/server.go",
		"internal/db/store.go",
		".git/config",
		"node_modules/left-pad/index.js",
	} {
		writeFile(t, filepath.Join(repo, f), "x")
	}
	output := filepath.Join(dir, "shop.json")

	out, err := execute(t, "", "generate", repo, "-o", output)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Generated graph from 4 files") {
		t.Errorf("unexpected output:\n%s", out)
	}

	g, err := graph.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	if strings.Join(ids, ",") != "/,cmd,internal" {
		t.Fatalf("nodes = %v", ids)
	}
	root, _ := g.Node("/")
	if root.Data.Label != "shop" {
		t.Errorf("root label = %q, want the directory name", root.Data.Label)
	}

	pos := positions(t, g)
	// Rank 1 holds two 280px cards and one gap; the root is centered over it.
	if pos["/"] != (layout.Point{X: 230, Y: 50}) {
		t.Errorf("root at %v", pos["/"])
	}
	if pos["cmd"].Y != 250 || pos["internal"].Y != 250 || pos["cmd"].X >= pos["internal"].X {
		t.Errorf("rank 1 at %v and %v", pos["cmd"], pos["internal"])
	}
}

func TestGenerateCommandFilesFrom(t *testing.T) {
	isolate(t)
	list := "# services\nsvc/a/main.go\nsvc/b/main.go\n\nlib/util.go\n"

	out, err := execute(t, list, "generate", "--files-from", "-", "--depth", "2", "--name", "mono", "-o", "-", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Unmarshal([]byte(out), graph.FormatJSON)
	if err != nil {
		t.Fatalf("stdout is not a graph: %v", err)
	}
	for _, id := range []string{"/", "lib", "svc", "svc/a", "svc/b"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("missing node %q", id)
		}
	}
	root, _ := g.Node("/")
	if root.Data.Label != "mono" {
		t.Errorf("root label = %q", root.Data.Label)
	}
}

func TestGenerateCommandErrors(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "file.txt"), "x")
	if err := os.Mkdir(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"missing dir", "", []string{"generate", filepath.Join(dir, "nope")}, errors.ErrCodeFileNotFound},
		{"not a dir", "", []string{"generate", filepath.Join(dir, "file.txt")}, errors.ErrCodeInvalidPath},
		{"no files", "", []string{"generate", filepath.Join(dir, "empty")}, errors.ErrCodeInvalidInput},
		{"missing list", "", []string{"generate", "--files-from", filepath.Join(dir, "list.txt")}, errors.ErrCodeFileNotFound},
		{"traversal", "../etc/passwd\n", []string{"generate", "--files-from", "-", "-o", "-"}, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInspectCommandPlain(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)

	out, err := execute(t, "", "inspect", input, "--plain")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"arch.json: 3 ranks", "rank 0 (1 nodes)", "Database", "(50, 450)", "280×100"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)
	if _, err := execute(t, "", "layout", input); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	cacheDir := strings.TrimSpace(out)
	if cacheDir != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", cacheDir)
	}

	out, err = execute(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared file layout cache") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "", "layout", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("layout after clear should be recomputed:\n%s", out)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	isolate(t)
	t.Setenv("ARCHGRAPH_CACHE_BACKEND", "none")

	out, err := execute(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "arch.json")
	writeFile(t, input, chainGraph)
	cfgPath := filepath.Join(dir, "custom.toml")
	writeFile(t, cfgPath, "[layout]\ndirection = \"LR\"\n\n[cache]\nbackend = \"none\"\n")

	out, err := execute(t, "", "layout", input, "-o", "-", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Unmarshal([]byte(out), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if g.Direction != "LR" {
		t.Errorf("direction = %q, want LR from the config file", g.Direction)
	}
	if got := positions(t, g)["api"]; got != (layout.Point{X: 430, Y: 50}) {
		t.Errorf("api at %v, want one rank to the right", got)
	}

	_, err = execute(t, "", "layout", input, "--config", filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing config: error = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "archgraph version: ") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "archgraph") {
		t.Error("completion script should mention the command name")
	}

	if _, err := execute(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
