package classify

import (
	"context"
	"fmt"
	"hash/fnv"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

// RootID is the ID of the node holding top-level files. It cannot clash with
// a directory because file paths are relative.
const RootID = "/"

// palette colors top-level groups; nested groups inherit their top-level color.
var palette = []string{
	"#4f46e5", "#0891b2", "#059669", "#d97706",
	"#dc2626", "#7c3aed", "#db2777", "#65a30d",
}

// Directory groups files by directory.
//
// A file a/b/c/x.go with Depth 2 belongs to group "a/b". Every group prefix
// becomes a node ("a" and "a/b"), the root links to each top-level group and
// each group links to its sub-groups. Files directly under the repository
// root belong to the root node.
type Directory struct {
	// Name labels the root node. Empty means "repository".
	Name string
	// Depth is the number of leading directories that form a group.
	// Zero or negative means 1.
	Depth int
}

// Classify implements [Classifier].
func (d Directory) Classify(ctx context.Context, files []string) (graph.Graph, error) {
	if err := errors.ValidateFiles(files); err != nil {
		return graph.Graph{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Graph{}, err
	}

	depth := max(d.Depth, 1)
	groups := make(map[string][]string)
	var rootFiles []string

	for _, f := range files {
		f = path.Clean(f)
		dir := path.Dir(f)
		if dir == "." {
			rootFiles = append(rootFiles, f)
			continue
		}
		segs := strings.Split(dir, "/")
		key := strings.Join(segs[:min(depth, len(segs))], "/")
		groups[key] = append(groups[key], f)
		// Register ancestors so every prefix gets a node.
		for i := 1; i < min(depth, len(segs)); i++ {
			anc := strings.Join(segs[:i], "/")
			if _, ok := groups[anc]; !ok {
				groups[anc] = nil
			}
		}
	}

	name := d.Name
	if name == "" {
		name = "repository"
	}
	slices.Sort(rootFiles)
	g := graph.Graph{
		Nodes: []graph.Node{{
			ID:   RootID,
			Type: graph.TypeRoot,
			Data: graph.NodeData{
				Label:       name,
				Description: describe(len(files)),
				Files:       slices.Compact(rootFiles),
			},
		}},
	}

	for _, key := range slices.Sorted(maps.Keys(groups)) {
		members := groups[key]
		slices.Sort(members)
		members = slices.Compact(members)
		top, _, _ := strings.Cut(key, "/")

		g.Nodes = append(g.Nodes, graph.Node{
			ID:   key,
			Type: graph.TypeGroup,
			Data: graph.NodeData{
				Label:       path.Base(key),
				Description: describe(len(members)),
				Files:       members,
				Color:       colorFor(top),
			},
		})

		parent := RootID
		if i := strings.LastIndex(key, "/"); i >= 0 {
			parent = key[:i]
		}
		g.Edges = append(g.Edges, graph.Edge{
			ID:     graph.EdgeID(parent, key),
			Source: parent,
			Target: key,
		})
	}
	return g, nil
}

func describe(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func colorFor(group string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(group))
	return palette[h.Sum32()%uint32(len(palette))]
}
