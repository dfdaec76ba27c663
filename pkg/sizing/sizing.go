// Package sizing decides how large each architecture node is drawn.
//
// The layout engine never invents dimensions; callers size every node before
// laying it out. [Default] reproduces the standard card size: 280×100, plus
// 30 pixels of height when a node lists more than five files.
package sizing

// Sizer returns the drawn size of a node that lists the given number of
// files.
type Sizer interface {
	Size(files int) (width, height float64)
}

// Default card dimensions in pixels.
const (
	BaseWidth       = 280
	BaseHeight      = 100
	ExtraHeight     = 30
	ManyFilesCutoff = 5
)

// Policy sizes nodes with a base size and extra height for long file lists.
type Policy struct {
	Width  float64
	Height float64
	// Extra is added to Height when the file count exceeds Threshold.
	Extra     float64
	Threshold int
}

// Default is the standard card policy.
var Default = Policy{
	Width:     BaseWidth,
	Height:    BaseHeight,
	Extra:     ExtraHeight,
	Threshold: ManyFilesCutoff,
}

// Size implements [Sizer].
func (p Policy) Size(files int) (float64, float64) {
	h := p.Height
	if files > p.Threshold {
		h += p.Extra
	}
	return p.Width, h
}

// Fixed sizes every node identically.
type Fixed struct {
	Width, Height float64
}

// Size implements [Sizer].
func (f Fixed) Size(int) (float64, float64) { return f.Width, f.Height }

// ByName returns the sizer for name: "default" (or "") and "compact".
// The second result is false for unknown names.
func ByName(name string) (Sizer, bool) {
	switch name {
	case "", "default":
		return Default, true
	case "compact":
		return Fixed{Width: 200, Height: 60}, true
	}
	return nil, false
}
