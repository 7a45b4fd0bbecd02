package layout

import (
	"math"
	"testing"

	"github.com/dgallion1/docwheel/internal/doctree"
	"github.com/dgallion1/docwheel/internal/parser"
)

const tol = 1e-9

func tree(t *testing.T, text string) *doctree.Node {
	t.Helper()
	return parser.Parse(text, "doc", parser.LineScanner{})
}

func TestCompute_AngularPartition(t *testing.T) {
	root := tree(t, "# A\n## A1\n## A2\n## A3\n# B\n# C\n### C1\n### C2\n")
	f := Compute(root, 400, 300, DefaultOptions())

	// Group sections by parent path and check each group partitions the parent.
	byPath := map[string]Section{}
	for _, s := range f.Sections {
		byPath[key(s.Path)] = s
	}
	var check func(n *doctree.Node, path []int, a0, a1 float64)
	check = func(n *doctree.Node, path []int, a0, a1 float64) {
		k := len(n.Children)
		if k == 0 {
			return
		}
		want := (a1 - a0) / float64(k)
		prevEnd := a0
		for i, c := range n.Children {
			p := append(append([]int{}, path...), i)
			s, ok := byPath[key(p)]
			if !ok {
				t.Fatalf("missing section for %s at %v", c.Title, p)
			}
			if math.Abs(s.StartAngle-prevEnd) > tol {
				t.Errorf("%s: expected start %.6f, got %.6f", c.Title, prevEnd, s.StartAngle)
			}
			if math.Abs(s.Span()-want) > tol {
				t.Errorf("%s: expected span %.6f, got %.6f", c.Title, want, s.Span())
			}
			prevEnd = s.EndAngle
			check(c, p, s.StartAngle, s.EndAngle)
		}
		if math.Abs(prevEnd-a1) > tol {
			t.Errorf("children of %s end at %.6f, expected %.6f", n.Title, prevEnd, a1)
		}
	}
	check(root, nil, 0, FullCircle)

	if len(f.Sections) != 8 {
		t.Errorf("expected 8 sections, got %d", len(f.Sections))
	}
}

func TestCompute_AngleRanges(t *testing.T) {
	root := tree(t, "# A\n## A1\n## A2\n# B\n# C\n## C1\n### C2\n")
	f := Compute(root, 400, 300, DefaultOptions())

	for _, s := range f.Sections {
		if s.StartAngle < 0 || s.StartAngle >= FullCircle {
			t.Errorf("%s: start %.6f outside [0, 2π)", s.Title, s.StartAngle)
		}
		if s.EndAngle <= s.StartAngle || s.EndAngle > FullCircle {
			t.Errorf("%s: end %.6f outside (start, 2π]", s.Title, s.EndAngle)
		}
	}

	// The last wedge of every ring ends exactly at 2π, so span and midpoint
	// must not read it as wrapping past angle 0.
	for _, title := range []string{"C", "C1", "C2"} {
		var s Section
		for _, c := range f.Sections {
			if c.Title == title {
				s = c
			}
		}
		if s.EndAngle != FullCircle {
			t.Errorf("%s: expected end %.6f, got %.6f", title, FullCircle, s.EndAngle)
		}
		if want := FullCircle - s.StartAngle; math.Abs(s.Span()-want) > tol {
			t.Errorf("%s: expected span %.6f, got %.6f", title, want, s.Span())
		}
		if mid := s.MidAngle(); mid < s.StartAngle || mid >= FullCircle {
			t.Errorf("%s: midpoint %.6f outside its wedge", title, mid)
		}
	}
}

func key(p []int) string {
	b := make([]byte, 0, len(p)*2)
	for _, i := range p {
		b = append(b, byte('0'+i), '/')
	}
	return string(b)
}

func TestCompute_RadialBands(t *testing.T) {
	root := tree(t, "# A\n## B\n### C\n")
	f := Compute(root, 200, 400, Options{Padding: 0.9})

	maxUsable := 100 * 0.9
	step := maxUsable / 3
	if math.Abs(f.RadiusStep-step) > tol {
		t.Fatalf("expected radius step %.4f, got %.4f", step, f.RadiusStep)
	}
	if math.Abs(f.RootRadius-step*0.5) > tol {
		t.Errorf("expected root radius %.4f, got %.4f", step*0.5, f.RootRadius)
	}

	want := []struct{ inner, outer float64 }{
		{step * 0.5, step},
		{step, step * 2},
		{step * 2, step * 3},
	}
	for i, s := range f.Sections {
		if s.Depth != i+1 {
			t.Errorf("section %d: expected depth %d, got %d", i, i+1, s.Depth)
		}
		if math.Abs(s.InnerRadius-want[i].inner) > tol || math.Abs(s.OuterRadius-want[i].outer) > tol {
			t.Errorf("section %s: expected band [%.4f, %.4f], got [%.4f, %.4f]",
				s.Title, want[i].inner, want[i].outer, s.InnerRadius, s.OuterRadius)
		}
	}
	if f.Sections[0].CenterX != 100 || f.Sections[0].CenterY != 200 {
		t.Errorf("expected centre (100, 200), got (%v, %v)", f.Sections[0].CenterX, f.Sections[0].CenterY)
	}
}

func TestCompute_SingleRingUsesFullRadius(t *testing.T) {
	f := Compute(tree(t, "# A\n# B\n"), 100, 100, Options{Padding: 0.9})
	if math.Abs(f.RadiusStep-45) > tol {
		t.Errorf("expected radius step 45, got %.4f", f.RadiusStep)
	}
	for _, s := range f.Sections {
		if math.Abs(s.InnerRadius-22.5) > tol || math.Abs(s.OuterRadius-45) > tol {
			t.Errorf("unexpected band for %s: [%v, %v]", s.Title, s.InnerRadius, s.OuterRadius)
		}
	}
}

func TestCompute_Degenerate(t *testing.T) {
	root := tree(t, "# A\n")
	tests := []struct {
		name string
		root *doctree.Node
		w, h float64
	}{
		{"nil root", nil, 100, 100},
		{"zero width", root, 0, 100},
		{"negative height", root, 100, -1},
	}
	for _, tt := range tests {
		f := Compute(tt.root, tt.w, tt.h, DefaultOptions())
		if len(f.Sections) != 0 || !f.Empty() {
			t.Errorf("%s: expected empty frame, got %d sections", tt.name, len(f.Sections))
		}
	}

	// Headerless documents still draw the root disc.
	f := Compute(tree(t, "body only"), 100, 100, DefaultOptions())
	if len(f.Sections) != 0 || f.Empty() {
		t.Errorf("expected root disc without sections, got %d sections, root radius %v", len(f.Sections), f.RootRadius)
	}
}

func TestCompute_LeafStillOccupiesBand(t *testing.T) {
	f := Compute(tree(t, "# Leaf\n# Parent\n## Child\n"), 300, 300, DefaultOptions())
	if len(f.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(f.Sections))
	}
	leaf := f.Sections[0]
	if leaf.Title != "Leaf" || leaf.OuterRadius != f.RadiusStep {
		t.Errorf("expected leaf to occupy the first band, got %+v", leaf)
	}
}

func TestSection_SpanAndMidAngleWrap(t *testing.T) {
	s := Section{StartAngle: 3 * math.Pi / 2, EndAngle: math.Pi / 2}
	if math.Abs(s.Span()-math.Pi) > tol {
		t.Errorf("expected span π, got %v", s.Span())
	}
	if math.Abs(s.MidAngle()) > tol {
		t.Errorf("expected mid angle 0, got %v", s.MidAngle())
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{FullCircle, 0},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > tol {
			t.Errorf("NormalizeAngle(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestLabelFits(t *testing.T) {
	opts := Options{Padding: 0.9, BandPadding: 4, MinLabelArc: 24}
	wide := Section{StartAngle: 0, EndAngle: math.Pi / 2, InnerRadius: 50, OuterRadius: 100}
	narrow := Section{StartAngle: 0, EndAngle: 0.1, InnerRadius: 50, OuterRadius: 100}

	if !LabelFits(wide, opts) {
		t.Errorf("expected label to fit, arc %.2f", LabelArc(wide, opts))
	}
	if LabelFits(narrow, opts) {
		t.Errorf("expected label not to fit, arc %.2f", LabelArc(narrow, opts))
	}
}
