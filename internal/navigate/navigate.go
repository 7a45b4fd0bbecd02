// Package navigate resolves pointer input and directional commands against
// the current frame's sections. All lookups are geometric: sections are
// matched by angle and radius, never through tree pointers, so the index
// stays valid across a full reparse as long as it is reset with the new
// frame.
package navigate

import (
	"math"

	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/sahilm/fuzzy"
)

// Epsilon absorbs floating-point drift between radii derived from the same
// radius step.
const Epsilon = 1e-6

// Direction is a navigation command.
type Direction int

const (
	Left  Direction = iota // previous section in the same band
	Right                  // next section in the same band
	Up                     // parent, toward the centre
	Down                   // nearest child, outward
)

var directionNames = map[string]Direction{
	"left":  Left,
	"right": Right,
	"up":    Up,
	"down":  Down,
}

// ParseDirection maps a command name to a Direction.
func ParseDirection(name string) (Direction, bool) {
	d, ok := directionNames[name]
	return d, ok
}

func (d Direction) String() string {
	for name, v := range directionNames {
		if v == d {
			return name
		}
	}
	return "unknown"
}

// Index holds the rendered sections of one frame and at most one selection.
type Index struct {
	sections []layout.Section
	selected int // -1 when nothing is selected
}

// NewIndex returns an index over sections with nothing selected.
func NewIndex(sections []layout.Section) *Index {
	return &Index{sections: sections, selected: -1}
}

// Reset replaces the section list and clears the selection.
func (ix *Index) Reset(sections []layout.Section) {
	ix.sections = sections
	ix.selected = -1
}

// Sections returns the current frame's sections in render order.
func (ix *Index) Sections() []layout.Section {
	return ix.sections
}

// Selected returns the selected section, if any.
func (ix *Index) Selected() (layout.Section, bool) {
	if ix.selected < 0 || ix.selected >= len(ix.sections) {
		return layout.Section{}, false
	}
	return ix.sections[ix.selected], true
}

// SelectedIndex returns the position of the selection in Sections, or -1.
func (ix *Index) SelectedIndex() int {
	if _, ok := ix.Selected(); !ok {
		return -1
	}
	return ix.selected
}

// Clear drops the selection.
func (ix *Index) Clear() {
	ix.selected = -1
}

// HitTest returns the index of the first section containing (x, y), or -1.
func (ix *Index) HitTest(x, y float64) int {
	for i, s := range ix.sections {
		if Contains(s, x, y) {
			return i
		}
	}
	return -1
}

// Contains reports whether surface point (x, y) lies inside s. Band edges
// and angle edges are inclusive.
func Contains(s layout.Section, x, y float64) bool {
	dx, dy := x-s.CenterX, y-s.CenterY
	dist := math.Hypot(dx, dy)
	if dist < s.InnerRadius || dist > s.OuterRadius {
		return false
	}
	angle := layout.NormalizeAngle(math.Atan2(dy, dx))
	if s.EndAngle-s.StartAngle >= layout.FullCircle-Epsilon {
		return true
	}
	if s.StartAngle > s.EndAngle {
		return angle >= s.StartAngle || angle <= s.EndAngle
	}
	return angle >= s.StartAngle && angle <= s.EndAngle
}

// Click selects the section under (x, y). A miss clears the selection.
func (ix *Index) Click(x, y float64) (layout.Section, bool) {
	ix.selected = ix.HitTest(x, y)
	return ix.Selected()
}

// SelectFirst selects the first rendered section, the entry point for
// keyboard navigation.
func (ix *Index) SelectFirst() (layout.Section, bool) {
	if len(ix.sections) == 0 {
		ix.selected = -1
		return layout.Section{}, false
	}
	ix.selected = 0
	return ix.sections[0], true
}

// SelectPath selects the section with the given tree path and title.
func (ix *Index) SelectPath(path []int, title string) (layout.Section, bool) {
	for i, s := range ix.sections {
		if s.Title == title && samePath(s.Path, path) {
			ix.selected = i
			return s, true
		}
	}
	return layout.Section{}, false
}

// SelectTitle selects the first section with the given title.
func (ix *Index) SelectTitle(title string) (layout.Section, bool) {
	for i, s := range ix.sections {
		if s.Title == title {
			ix.selected = i
			return s, true
		}
	}
	return layout.Section{}, false
}

func samePath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Move applies a directional command. With nothing selected any direction
// selects the first section. Moves with no target leave the selection alone.
func (ix *Index) Move(d Direction) (layout.Section, bool) {
	if _, ok := ix.Selected(); !ok {
		return ix.SelectFirst()
	}
	var next int
	switch d {
	case Left:
		next = ix.sibling(-1)
	case Right:
		next = ix.sibling(1)
	case Up:
		next = ix.parent()
	case Down:
		next = ix.child()
	default:
		next = -1
	}
	if next >= 0 {
		ix.selected = next
	}
	return ix.Selected()
}

// sibling steps through the sections sharing the current band, wrapping at
// either end.
func (ix *Index) sibling(step int) int {
	cur := ix.sections[ix.selected]
	var band []int
	pos := -1
	for i, s := range ix.sections {
		if !near(s.InnerRadius, cur.InnerRadius) || !near(s.OuterRadius, cur.OuterRadius) {
			continue
		}
		if near(s.StartAngle, cur.StartAngle) && near(s.EndAngle, cur.EndAngle) {
			pos = len(band)
		}
		band = append(band, i)
	}
	if pos < 0 || len(band) < 2 {
		return -1
	}
	n := len(band)
	return band[((pos+step)%n+n)%n]
}

// child picks, among sections in the next band out that lie within the
// current span, the one whose mid-angle is closest to the current mid-angle.
func (ix *Index) child() int {
	cur := ix.sections[ix.selected]
	curMid := cur.StartAngle + (cur.EndAngle-cur.StartAngle)/2
	best, bestDist := -1, math.Inf(1)
	for i, s := range ix.sections {
		if !near(s.InnerRadius, cur.OuterRadius) {
			continue
		}
		if s.StartAngle < cur.StartAngle-Epsilon || s.EndAngle > cur.EndAngle+Epsilon {
			continue
		}
		mid := s.StartAngle + (s.EndAngle-s.StartAngle)/2
		if dist := math.Abs(mid - curMid); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// parent returns the first section one band inward whose span contains
// the current span.
func (ix *Index) parent() int {
	cur := ix.sections[ix.selected]
	for i, s := range ix.sections {
		if !near(s.OuterRadius, cur.InnerRadius) {
			continue
		}
		if s.StartAngle <= cur.StartAngle+Epsilon && s.EndAngle >= cur.EndAngle-Epsilon {
			return i
		}
	}
	return -1
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

type titleSource []layout.Section

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

// Find selects the section whose title best matches query.
func (ix *Index) Find(query string) (layout.Section, bool) {
	if query == "" {
		return layout.Section{}, false
	}
	matches := fuzzy.FindFrom(query, titleSource(ix.sections))
	if len(matches) == 0 {
		return layout.Section{}, false
	}
	ix.selected = matches[0].Index
	return ix.sections[ix.selected], true
}
