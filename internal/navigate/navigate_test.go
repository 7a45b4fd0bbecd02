package navigate

import (
	"math"
	"testing"

	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/parser"
)

// Render order: A, A1, A2, A3, B, C, C1. C1 is a level-3 header directly
// under C, so it shares the second band with A1..A3.
const outline = "# A\n## A1\n## A2\n## A3\n# B\n# C\n### C1\n"

func newIndex(t *testing.T) *Index {
	t.Helper()
	root := parser.Parse(outline, "doc", parser.LineScanner{})
	f := layout.Compute(root, 600, 600, layout.DefaultOptions())
	if len(f.Sections) != 7 {
		t.Fatalf("expected 7 sections, got %d", len(f.Sections))
	}
	return NewIndex(f.Sections)
}

func selectedTitle(t *testing.T, ix *Index) string {
	t.Helper()
	s, ok := ix.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	return s.Title
}

func TestHitTest_MidpointInverse(t *testing.T) {
	ix := newIndex(t)
	for i, s := range ix.Sections() {
		x, y := s.Point(s.MidAngle(), s.MidRadius())
		if got := ix.HitTest(x, y); got != i {
			t.Errorf("section %s: expected hit %d, got %d", s.Title, i, got)
		}
	}
}

func TestClick_MissClearsSelection(t *testing.T) {
	ix := newIndex(t)
	ix.SelectFirst()

	// The centre belongs to the root disc, which is not a section.
	if _, ok := ix.Click(300, 300); ok {
		t.Error("expected click on root disc to miss")
	}
	if _, ok := ix.Selected(); ok {
		t.Error("expected selection to be cleared")
	}

	s := ix.Sections()[4]
	x, y := s.Point(s.MidAngle(), s.MidRadius())
	if got, ok := ix.Click(x, y); !ok || got.Title != "B" {
		t.Errorf("expected click to select B, got %q (%v)", got.Title, ok)
	}

	if _, ok := ix.Click(0, 0); ok {
		t.Error("expected click in the corner to miss")
	}
}

func TestContains_Wraparound(t *testing.T) {
	s := layout.Section{
		StartAngle:  3 * math.Pi / 2,
		EndAngle:    math.Pi / 2,
		InnerRadius: 10,
		OuterRadius: 20,
	}
	tests := []struct {
		angle float64
		want  bool
	}{
		{0, true},
		{7 * math.Pi / 4, true},
		{math.Pi / 4, true},
		{math.Pi, false},
	}
	for _, tt := range tests {
		x, y := s.Point(tt.angle, 15)
		if got := Contains(s, x, y); got != tt.want {
			t.Errorf("angle %.3f: expected %v, got %v", tt.angle, tt.want, got)
		}
	}
	if x, y := s.Point(0, 25); Contains(s, x, y) {
		t.Error("expected point outside the band to miss")
	}
}

func TestMove_EntryPoint(t *testing.T) {
	for _, d := range []Direction{Left, Right, Up, Down} {
		ix := newIndex(t)
		if s, ok := ix.Move(d); !ok || s.Title != "A" {
			t.Errorf("%s with no selection: expected A, got %q", d, s.Title)
		}
	}

	empty := NewIndex(nil)
	if _, ok := empty.Move(Right); ok {
		t.Error("expected no selection on empty index")
	}
}

func TestMove_SiblingWraps(t *testing.T) {
	ix := newIndex(t)
	ix.SelectFirst()

	want := []string{"B", "C", "A"}
	for i, w := range want {
		ix.Move(Right)
		if got := selectedTitle(t, ix); got != w {
			t.Errorf("step %d: expected %s, got %s", i, w, got)
		}
	}

	ix.Move(Left)
	if got := selectedTitle(t, ix); got != "C" {
		t.Errorf("expected left from A to wrap to C, got %s", got)
	}
}

func TestMove_SiblingsShareBandAcrossParents(t *testing.T) {
	ix := newIndex(t)
	ix.SelectTitle("A3")
	ix.Move(Right)
	// C1 is a level-3 header but sits one band out, next to A's children.
	if got := selectedTitle(t, ix); got != "C1" {
		t.Errorf("expected C1, got %s", got)
	}
	ix.Move(Right)
	if got := selectedTitle(t, ix); got != "A1" {
		t.Errorf("expected wrap to A1, got %s", got)
	}
}

func TestMove_SingleSectionBandIsNoop(t *testing.T) {
	root := parser.Parse("# Only\n", "doc", parser.LineScanner{})
	ix := NewIndex(layout.Compute(root, 100, 100, layout.DefaultOptions()).Sections)
	ix.SelectFirst()
	for _, d := range []Direction{Left, Right, Up, Down} {
		ix.Move(d)
		if got := selectedTitle(t, ix); got != "Only" {
			t.Errorf("%s: expected Only to stay selected, got %s", d, got)
		}
	}
}

func TestMove_DescendPicksNearestChild(t *testing.T) {
	ix := newIndex(t)
	ix.SelectFirst()
	ix.Move(Down)
	if got := selectedTitle(t, ix); got != "A2" {
		t.Errorf("expected nearest child A2, got %s", got)
	}

	ix.SelectTitle("B")
	ix.Move(Down)
	if got := selectedTitle(t, ix); got != "B" {
		t.Errorf("expected leaf B to stay selected, got %s", got)
	}
}

func TestMove_Ascend(t *testing.T) {
	ix := newIndex(t)
	ix.SelectTitle("A3")
	ix.Move(Up)
	if got := selectedTitle(t, ix); got != "A" {
		t.Errorf("expected parent A, got %s", got)
	}

	ix.Move(Up)
	if got := selectedTitle(t, ix); got != "A" {
		t.Errorf("expected top-level section to stay selected, got %s", got)
	}
}

func TestMove_DescendSkipsLevelGapByGeometry(t *testing.T) {
	ix := newIndex(t)
	ix.SelectTitle("C")
	ix.Move(Down)
	if got := selectedTitle(t, ix); got != "C1" {
		t.Errorf("expected C1, got %s", got)
	}
	ix.Move(Up)
	if got := selectedTitle(t, ix); got != "C" {
		t.Errorf("expected C, got %s", got)
	}
}

func TestSelectPath(t *testing.T) {
	ix := newIndex(t)
	if s, ok := ix.SelectPath([]int{2, 0}, "C1"); !ok || s.Title != "C1" {
		t.Errorf("expected C1, got %q (%v)", s.Title, ok)
	}
	if _, ok := ix.SelectPath([]int{2, 0}, "A1"); ok {
		t.Error("expected title mismatch to fail")
	}
}

func TestReset_ClearsSelection(t *testing.T) {
	ix := newIndex(t)
	ix.SelectFirst()
	ix.Reset(ix.Sections())
	if _, ok := ix.Selected(); ok {
		t.Error("expected reset to clear the selection")
	}
}

func TestFind(t *testing.T) {
	ix := newIndex(t)
	if s, ok := ix.Find("C1"); !ok || s.Title != "C1" {
		t.Errorf("expected C1, got %q (%v)", s.Title, ok)
	}
	if _, ok := ix.Find("zzz"); ok {
		t.Error("expected no match")
	}
	if _, ok := ix.Find(""); ok {
		t.Error("expected empty query to match nothing")
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"left", "right", "up", "down"} {
		d, ok := ParseDirection(name)
		if !ok || d.String() != name {
			t.Errorf("expected %s to round trip, got %v (%v)", name, d, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("expected unknown direction to fail")
	}
}
