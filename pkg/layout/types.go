package layout

import "strings"

// Direction is the flow direction of the ranks.
type Direction string

const (
	// TopToBottom places rank 0 at the top and grows downward.
	TopToBottom Direction = "TB"
	// LeftToRight places rank 0 on the left and grows rightward.
	LeftToRight Direction = "LR"
)

// ParseDirection converts s to a Direction. Matching is case-insensitive and
// the empty string means TopToBottom.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TB":
		return TopToBottom, nil
	case "LR":
		return LeftToRight, nil
	}
	return "", newDirectionError(s)
}

// Valid reports whether d is TopToBottom or LeftToRight.
func (d Direction) Valid() bool { return d == TopToBottom || d == LeftToRight }

func (d Direction) String() string { return string(d) }

// Point is a 2D coordinate in pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a box to be placed. Width and Height must be positive. Position is
// ignored on input and holds the top-left corner on output.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Position *Point  `json:"position,omitempty" yaml:"position,omitempty"`
}

// Edge is a directed connection. Endpoints that match no node are tolerated.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Spacing defaults in pixels.
const (
	DefaultNodeSeparation = 80
	DefaultRankSeparation = 100
	DefaultEdgeSeparation = 30
	DefaultMarginX        = 50
	DefaultMarginY        = 50
	DefaultPasses         = 4
)

// Config holds the spacing constants of a layout.
type Config struct {
	// NodeSeparation is the minimum gap between neighbors in a rank.
	NodeSeparation float64 `json:"nodeSeparation" yaml:"nodeSeparation" toml:"node_separation"`
	// RankSeparation is the minimum gap between adjacent ranks.
	RankSeparation float64 `json:"rankSeparation" yaml:"rankSeparation" toml:"rank_separation"`
	// EdgeSeparation is the gap between parallel edge routes. Only the
	// Graphviz strategy uses it.
	EdgeSeparation float64 `json:"edgeSeparation" yaml:"edgeSeparation" toml:"edge_separation"`
	MarginX        float64 `json:"marginX" yaml:"marginX" toml:"margin_x"`
	MarginY        float64 `json:"marginY" yaml:"marginY" toml:"margin_y"`
	// Passes is the number of crossing-reduction sweeps.
	Passes int `json:"passes" yaml:"passes" toml:"passes"`
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		NodeSeparation: DefaultNodeSeparation,
		RankSeparation: DefaultRankSeparation,
		EdgeSeparation: DefaultEdgeSeparation,
		MarginX:        DefaultMarginX,
		MarginY:        DefaultMarginY,
		Passes:         DefaultPasses,
	}
}

// Merge returns c with every zero field taken from base.
func (c Config) Merge(base Config) Config {
	fill := func(v *float64, b float64) {
		if *v == 0 {
			*v = b
		}
	}
	fill(&c.NodeSeparation, base.NodeSeparation)
	fill(&c.RankSeparation, base.RankSeparation)
	fill(&c.EdgeSeparation, base.EdgeSeparation)
	fill(&c.MarginX, base.MarginX)
	fill(&c.MarginY, base.MarginY)
	if c.Passes == 0 {
		c.Passes = base.Passes
	}
	return c
}

// WithDefaults fills the zero fields of c from [DefaultConfig].
func (c Config) WithDefaults() Config {
	return c.Merge(DefaultConfig())
}

// Options configures a call to [Layout].
type Options struct {
	Direction Direction
	// Config holds the spacing. Zero fields take their default values.
	Config Config
	// Strategy places the nodes. Nil means Layered.
	Strategy Strategy
}

// Result is the output of [Layout].
type Result struct {
	// Nodes are the input nodes in input order with Position set.
	Nodes []Node `json:"nodes"`
	// Ranks maps node ID to its rank (0 = first in flow direction).
	Ranks map[string]int `json:"ranks"`
	// Orders maps node ID to its index among the nodes of its rank.
	Orders map[string]int `json:"orders"`
	// Width and Height are the drawing extent including margins.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// ReversedEdges lists edges reversed to break cycles, as given.
	ReversedEdges []Edge `json:"reversedEdges,omitempty"`
	// Crossings is the number of edge crossings of the final order, or -1
	// when the strategy does not report it.
	Crossings int `json:"crossings"`
	// Strategy names the strategy that produced the result.
	Strategy string `json:"strategy"`
}

// Position returns the position of the node with the given ID.
func (r *Result) Position(id string) (Point, bool) {
	for _, n := range r.Nodes {
		if n.ID == id && n.Position != nil {
			return *n.Position, true
		}
	}
	return Point{}, false
}
