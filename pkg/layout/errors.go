package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/archgraph/pkg/errors"
)

// InvalidNodeError reports a node that cannot be laid out.
type InvalidNodeError struct {
	ID     string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	if e.ID == "" {
		return "invalid node: " + e.Reason
	}
	return fmt.Sprintf("invalid node %q: %s", e.ID, e.Reason)
}

// InvalidDirectionError reports an unknown direction value.
type InvalidDirectionError struct {
	Value string
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid direction %q: want TB or LR", e.Value)
}

func newNodeError(id, reason string) error {
	err := &InvalidNodeError{ID: id, Reason: reason}
	return errors.Wrap(errors.ErrCodeInvalidNode, err, "layout")
}

func newDirectionError(v string) error {
	err := &InvalidDirectionError{Value: v}
	return errors.Wrap(errors.ErrCodeInvalidDirection, err, "layout")
}

func validate(nodes []Node, opts Options) error {
	if !opts.Direction.Valid() {
		return newDirectionError(string(opts.Direction))
	}
	if err := opts.Config.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return newNodeError("", fmt.Sprintf("node %d has an empty id", i))
		}
		if _, dup := seen[n.ID]; dup {
			return newNodeError(n.ID, "duplicate id")
		}
		seen[n.ID] = struct{}{}
		if !positive(n.Width) || !positive(n.Height) {
			return newNodeError(n.ID, fmt.Sprintf("size %gx%g must be positive and finite", n.Width, n.Height))
		}
	}
	return nil
}

// Validate reports a negative or non-finite spacing value or a negative
// pass count.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"node separation", c.NodeSeparation},
		{"rank separation", c.RankSeparation},
		{"edge separation", c.EdgeSeparation},
		{"margin x", c.MarginX},
		{"margin y", c.MarginY},
	}
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "layout: %s must be a non-negative number, got %g", f.name, f.v)
		}
	}
	if c.Passes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout: passes must not be negative, got %d", c.Passes)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
