// Package layout maps a header tree onto sunburst geometry: every non-root
// node becomes an annular wedge whose angular span is an equal share of its
// parent's span and whose radial band is fixed by its depth.
package layout

import (
	"math"

	"github.com/dgallion1/docwheel/internal/doctree"
)

// FullCircle is the angular span of the first ring.
const FullCircle = 2 * math.Pi

// Options tune the geometry. A non-positive Padding or MinLabelArc falls back
// to the default.
type Options struct {
	Padding     float64 // Fraction of the half-extent usable for rings
	BandPadding float64 // Inset from the outer radius where labels sit
	MinLabelArc float64 // Minimum arc length, in surface units, to attempt a label
}

// DefaultOptions returns the standard geometry.
func DefaultOptions() Options {
	return Options{
		Padding:     0.92,
		BandPadding: 4,
		MinLabelArc: 24,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Padding <= 0 || o.Padding > 1 {
		o.Padding = d.Padding
	}
	if o.BandPadding < 0 {
		o.BandPadding = d.BandPadding
	}
	if o.MinLabelArc <= 0 {
		o.MinLabelArc = d.MinLabelArc
	}
	return o
}

// Section is the rendered wedge of one tree node. Angles are radians measured
// clockwise from the positive x axis in surface coordinates (y grows down).
// StartAngle lies in [0, 2π); EndAngle is the end of the span and may equal
// 2π for the last wedge of a ring.
type Section struct {
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Title       string  `json:"title"`
	Level       int     `json:"level"`
	Depth       int     `json:"depth"`
	Path        []int   `json:"path"`
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
}

// Span returns the angular width, accounting for arcs that cross angle 0.
func (s Section) Span() float64 {
	if s.StartAngle > s.EndAngle {
		return FullCircle - s.StartAngle + s.EndAngle
	}
	return s.EndAngle - s.StartAngle
}

// MidAngle returns the angle halfway through the span, normalised to [0, 2π).
func (s Section) MidAngle() float64 {
	return NormalizeAngle(s.StartAngle + s.Span()/2)
}

// MidRadius returns the radius halfway through the band.
func (s Section) MidRadius() float64 {
	return (s.InnerRadius + s.OuterRadius) / 2
}

// Point converts polar coordinates around the section's centre to surface
// coordinates.
func (s Section) Point(angle, radius float64) (x, y float64) {
	return s.CenterX + radius*math.Cos(angle), s.CenterY + radius*math.Sin(angle)
}

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, FullCircle)
	if a < 0 {
		a += FullCircle
	}
	if a >= FullCircle {
		a = 0
	}
	return a
}

// Frame is the complete geometry for one redraw.
type Frame struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	CenterX    float64   `json:"center_x"`
	CenterY    float64   `json:"center_y"`
	RadiusStep float64   `json:"radius_step"`
	RootRadius float64   `json:"root_radius"`
	RootTitle  string    `json:"root_title"`
	Sections   []Section `json:"sections"`
}

// Empty reports whether the frame has nothing to draw.
func (f Frame) Empty() bool {
	return f.RootRadius <= 0
}

// Compute lays out every non-root node of root within a width x height
// surface. Sections are returned in preorder, parents before children. A nil
// root or a zero-sized surface yields an empty frame.
func Compute(root *doctree.Node, width, height float64, opts Options) Frame {
	opts = opts.withDefaults()
	f := Frame{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
	if root == nil || width <= 0 || height <= 0 {
		return f
	}
	f.RootTitle = root.Title

	maxUsable := math.Min(width, height) / 2 * opts.Padding
	maxDepth := root.MaxDepth()
	f.RadiusStep = maxUsable
	if maxDepth > 1 {
		f.RadiusStep = maxUsable / float64(maxDepth)
	}
	f.RootRadius = f.RadiusStep * 0.5

	f.Sections = make([]Section, 0, countNodes(root)-1)
	f.place(root, nil, 0, FullCircle, 0)
	return f
}

// place assigns equal contiguous shares of [a0, a1) to the children of n.
func (f *Frame) place(n *doctree.Node, path []int, a0, a1 float64, depth int) {
	k := len(n.Children)
	if k == 0 {
		return
	}
	share := (a1 - a0) / float64(k)
	d := depth + 1
	inner := f.RadiusStep * float64(d-1)
	if d == 1 {
		inner = f.RadiusStep * 0.5
	}
	outer := f.RadiusStep * float64(d)

	for i, c := range n.Children {
		start := a0 + share*float64(i)
		end := start + share
		if i == k-1 {
			end = a1
		}
		childPath := make([]int, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = i

		f.Sections = append(f.Sections, Section{
			StartAngle:  start,
			EndAngle:    end,
			InnerRadius: inner,
			OuterRadius: outer,
			Title:       c.Title,
			Level:       c.Level,
			Depth:       d,
			Path:        childPath,
			CenterX:     f.CenterX,
			CenterY:     f.CenterY,
		})
		f.place(c, childPath, start, end, d)
	}
}

func countNodes(n *doctree.Node) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

// LabelArc is the arc length available for a label, measured at the label
// radius just inside the outer edge.
func LabelArc(s Section, opts Options) float64 {
	opts = opts.withDefaults()
	return s.Span() * (s.OuterRadius - opts.BandPadding)
}

// LabelFits reports whether a label should be attempted for s. Sections that
// fail still exist and are still hit-testable.
func LabelFits(s Section, opts Options) bool {
	opts = opts.withDefaults()
	return LabelArc(s, opts) >= opts.MinLabelArc
}
