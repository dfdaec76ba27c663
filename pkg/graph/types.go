package graph

import "github.com/matzehuels/archgraph/pkg/layout"

// Node types assigned by the built-in classifiers. Remote classifiers may use
// any other string.
const (
	TypeRoot  = "root"
	TypeGroup = "group"
)

// Graph is the caller-side architecture diagram: nodes with a data payload,
// directed edges, and the direction it was last laid out in.
//
// It is the wire format of the HTTP API, the file format of the CLI and the
// cached value of the pipeline.
type Graph struct {
	Nodes     []Node `json:"nodes" yaml:"nodes"`
	Edges     []Edge `json:"edges" yaml:"edges"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Node is an architecture component.
type Node struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type,omitempty" yaml:"type,omitempty"`
	Position *layout.Point `json:"position,omitempty" yaml:"position,omitempty"`
	Data     NodeData      `json:"data" yaml:"data"`
}

// NodeData is the payload rendered inside a node. The layout only looks at
// the number of Files.
type NodeData struct {
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Files       []string       `json:"files,omitempty" yaml:"files,omitempty"`
	Color       string         `json:"color,omitempty" yaml:"color,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// EdgeID returns the conventional edge ID "source->target".
func EdgeID(source, target string) string { return source + "->" + target }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of g. Meta maps are copied shallowly.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes:     make([]Node, len(g.Nodes)),
		Edges:     append([]Edge(nil), g.Edges...),
		Direction: g.Direction,
	}
	for i, n := range g.Nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		n.Data.Files = append([]string(nil), n.Data.Files...)
		n.Data.Meta = copyMeta(n.Data.Meta)
		out.Nodes[i] = n
	}
	return out
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
