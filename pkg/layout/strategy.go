package layout

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/errors"
)

// Strategy names accepted by [StrategyByName].
const (
	StrategyLayered  = "layered"
	StrategyGraphviz = "graphviz"
)

// Input is the validated input handed to a [Strategy]. Node IDs are unique
// and every edge endpoint names a node.
type Input struct {
	Nodes     []Node
	Edges     []Edge
	Direction Direction
	Config    Config
}

// Placement is what a [Strategy] computes: node centers in drawing
// coordinates (margins included) plus rank bookkeeping.
type Placement struct {
	Centers   map[string]Point
	Ranks     map[string]int
	Orders    map[string]int
	Reversed  []Edge
	Crossings int
}

// Strategy places validated nodes.
type Strategy interface {
	Name() string
	Place(ctx context.Context, in Input) (*Placement, error)
}

// StrategyByName returns the strategy registered under name. The empty name
// selects Layered.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyLayered:
		return Layered{}, nil
	case StrategyGraphviz:
		return Graphviz{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q: want one of %s",
		name, strings.Join(StrategyNames(), ", "))
}

// StrategyNames lists the names accepted by [StrategyByName].
func StrategyNames() []string {
	names := []string{StrategyLayered, StrategyGraphviz}
	slices.Sort(names)
	return names
}
