package layout

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// pointsPerInch converts pixel sizes to the inches Graphviz expects. One
// pixel is treated as one point.
const pointsPerInch = 72.0

// Graphviz places nodes with the Graphviz "dot" engine.
//
// Node sizes are fixed to the requested width and height and the spacing
// constants are passed as nodesep and ranksep. Ranks and in-rank orders are
// read back from the computed coordinates. Crossings are not reported.
type Graphviz struct{}

// Name implements [Strategy].
func (Graphviz) Name() string { return StrategyGraphviz }

// Place implements [Strategy].
func (Graphviz) Place(ctx context.Context, in Input) (*Placement, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(toDOT(in))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return readPlacement(buf.Bytes(), in)
}

func toDOT(in Input) []byte {
	var buf bytes.Buffer
	rankdir := "TB"
	if in.Direction == LeftToRight {
		rankdir = "LR"
	}
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [rankdir=%s, nodesep=%s, ranksep=%s, esep=%s];\n", rankdir,
		inches(in.Config.NodeSeparation), inches(in.Config.RankSeparation), inches(in.Config.EdgeSeparation))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")

	index := make(map[string]int, len(in.Nodes))
	for i, n := range in.Nodes {
		index[n.ID] = i
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(n.Width), inches(n.Height))
	}
	for _, e := range in.Edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", index[e.Source], index[e.Target])
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="([-0-9.e+]+),([-0-9.e+]+)"`)
	bbAttrRe   = regexp.MustCompile(`\bbb="([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+)"`)
)

// readPlacement extracts node centers from laid-out DOT. Graphviz puts the
// origin at the bottom left, so y is flipped against the bounding box.
func readPlacement(out []byte, in Input) (*Placement, error) {
	bb := bbAttrRe.FindSubmatch(out)
	if bb == nil {
		return nil, fmt.Errorf("graphviz output has no bounding box")
	}
	x0, _ := strconv.ParseFloat(string(bb[1]), 64)
	y1, _ := strconv.ParseFloat(string(bb[4]), 64)

	p := &Placement{
		Centers:   make(map[string]Point, len(in.Nodes)),
		Ranks:     make(map[string]int, len(in.Nodes)),
		Orders:    make(map[string]int, len(in.Nodes)),
		Crossings: -1,
	}
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		i, err := strconv.Atoi(string(m[1]))
		if err != nil || i >= len(in.Nodes) {
			continue
		}
		pos := posAttrRe.FindSubmatch(m[2])
		if pos == nil {
			return nil, fmt.Errorf("graphviz output has no position for node %q", in.Nodes[i].ID)
		}
		x, _ := strconv.ParseFloat(string(pos[1]), 64)
		y, _ := strconv.ParseFloat(string(pos[2]), 64)
		p.Centers[in.Nodes[i].ID] = Point{
			X: x - x0 + in.Config.MarginX,
			Y: y1 - y + in.Config.MarginY,
		}
	}
	if len(p.Centers) != len(in.Nodes) {
		return nil, fmt.Errorf("graphviz placed %d of %d nodes", len(p.Centers), len(in.Nodes))
	}
	assignRanks(p, in)
	return p, nil
}

// assignRanks groups nodes sharing a rank-axis coordinate into ranks and
// orders each rank along the other axis.
func assignRanks(p *Placement, in Input) {
	rankPos := func(c Point) float64 { return c.Y }
	orderPos := func(c Point) float64 { return c.X }
	if in.Direction == LeftToRight {
		rankPos, orderPos = orderPos, rankPos
	}

	var levels []float64
	for _, c := range p.Centers {
		levels = append(levels, round2(rankPos(c)))
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	byRank := make(map[int][]string)
	for id, c := range p.Centers {
		r, _ := slices.BinarySearch(levels, round2(rankPos(c)))
		p.Ranks[id] = r
		byRank[r] = append(byRank[r], id)
	}
	for _, ids := range byRank {
		slices.SortFunc(ids, func(a, b string) int {
			if c := cmp.Compare(orderPos(p.Centers[a]), orderPos(p.Centers[b])); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for i, id := range ids {
			p.Orders[id] = i
		}
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
