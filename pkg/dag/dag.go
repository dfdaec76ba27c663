package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent rows (From.Row+1 != To.Row).
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a directed cycle
	// is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeKind distinguishes caller nodes from synthetic ones.
type NodeKind int

const (
	// NodeKindRegular is a node supplied by the caller.
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual stands in for one rank hop of a long edge.
	// Virtual nodes keep a MasterID naming the edge's source.
	NodeKindVirtual
)

// Node is a vertex of the rank graph.
type Node struct {
	ID   string   // Unique identifier
	Row  int      // Rank (0 = first layer)
	Kind NodeKind // Regular or virtual

	// MasterID names the source of the long edge a virtual node belongs to.
	MasterID string
}

// IsVirtual reports whether the node was inserted to split a long edge.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// Edge is a directed connection between two nodes.
//
// Reversed marks an edge that was flipped to break a cycle; From and To then
// hold the ranking direction, the opposite of the caller's edge.
type Edge struct {
	From     string
	To       string
	Reversed bool
}

// DAG is a directed graph with row assignments.
//
// Nodes are kept in insertion order and all queries return results in a
// deterministic order. Parallel edges are kept: Children and Parents list a
// neighbor once per edge.
//
// The zero value is not usable - use New. DAG is not safe for concurrent use.
type DAG struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	rows     map[int][]*Node
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it by its Row.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the ID
// is already taken.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node)
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Self-loops and parallel edges are accepted; [DAG.Validate] rejects the
// former.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes one edge from→to if it exists and reports whether it
// did. When parallel edges exist only the first is removed.
func (d *DAG) RemoveEdge(from, to string) bool {
	i := slices.IndexFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	if i < 0 {
		return false
	}
	d.edges = slices.Delete(d.edges, i, i+1)
	d.outgoing[from] = removeFirst(d.outgoing[from], to)
	d.incoming[to] = removeFirst(d.incoming[to], from)
	return true
}

func removeFirst(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// SetRows updates row assignments and rebuilds the row index.
// Nodes missing from rows keep their current row. Within a row, nodes stay
// in insertion order.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node)
	for _, n := range d.order {
		if r, ok := rows[n.ID]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Children returns the targets of id's outgoing edges, once per edge.
// The slice is read-only.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of id's incoming edges, once per edge.
// The slice is read-only.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// ChildrenInRow returns the children of id that sit in row.
func (d *DAG) ChildrenInRow(id string, row int) []string {
	return d.inRow(d.outgoing[id], row)
}

// ParentsInRow returns the parents of id that sit in row.
func (d *DAG) ParentsInRow(id string, row int) []string {
	return d.inRow(d.incoming[id], row)
}

func (d *DAG) inRow(ids []string, row int) []string {
	var result []string
	for _, id := range ids {
		if n, ok := d.nodes[id]; ok && n.Row == row {
			result = append(result, id)
		}
	}
	return result
}

// NodesInRow returns the nodes of a row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowIDs returns the occupied row indices in ascending order.
func (d *DAG) RowIDs() []int {
	return slices.Sorted(maps.Keys(d.rows))
}

// MaxRow returns the highest row index, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	maxRow := 0
	for r := range d.rows {
		maxRow = max(maxRow, r)
	}
	return maxRow
}

// Sources returns nodes without incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.order {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Validate checks that every edge connects consecutive rows and that the
// graph is acyclic. Returns ErrNonConsecutiveRows or ErrGraphHasCycle.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if d.nodes[e.To].Row != d.nodes[e.From].Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if visit(child) {
					return true
				}
			case gray:
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, n := range d.order {
		if color[n.ID] == white && visit(n.ID) {
			return ErrGraphHasCycle
		}
	}
	return nil
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID of each node, preserving order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
