package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
)

type svgState struct {
	fill      string
	stroke    string
	lineWidth float64
	fontSize  float64
	groups    int // <g> elements opened since the matching Save
}

// SVGSurface renders to an SVG document. Transforms open nested <g>
// elements, which Restore closes.
type SVGSurface struct {
	canvas *svg.SVG
	path   strings.Builder
	state  svgState
	stack  []svgState
}

// NewSVGSurface starts an SVG document of the given size on w.
func NewSVGSurface(w io.Writer, width, height int) *SVGSurface {
	canvas := svg.New(w)
	canvas.Start(width, height)
	return &SVGSurface{
		canvas: canvas,
		state:  svgState{fill: "#000000", stroke: "#000000", lineWidth: 1, fontSize: 12},
	}
}

// Finish closes any open groups and the document.
func (s *SVGSurface) Finish() {
	for len(s.stack) > 0 {
		s.Restore()
	}
	s.closeGroups()
	s.canvas.End()
}

func (s *SVGSurface) BeginPath() {
	s.path.Reset()
}

func (s *SVGSurface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%.2f %.2f ", x, y)
}

func (s *SVGSurface) LineTo(x, y float64) {
	if s.path.Len() == 0 {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%.2f %.2f ", x, y)
}

// Arc follows canvas semantics: a line joins the current point to the arc's
// start. Full circles are split into two half arcs since an SVG arc cannot
// start and end on the same point.
func (s *SVGSurface) Arc(cx, cy, r, start, end float64, ccw bool) {
	delta := end - start
	if ccw {
		delta = start - end
	}
	full := math.Abs(delta) >= 2*math.Pi-1e-9
	if !full {
		delta = math.Mod(delta, 2*math.Pi)
		if delta < 0 {
			delta += 2 * math.Pi
		}
	}

	x0, y0 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	s.LineTo(x0, y0)
	sweep := 1
	dir := 1.0
	if ccw {
		sweep, dir = 0, -1
	}
	if full {
		hx, hy := cx+r*math.Cos(start+dir*math.Pi), cy+r*math.Sin(start+dir*math.Pi)
		fmt.Fprintf(&s.path, "A%.2f %.2f 0 0 %d %.2f %.2f ", r, r, sweep, hx, hy)
		fmt.Fprintf(&s.path, "A%.2f %.2f 0 0 %d %.2f %.2f ", r, r, sweep, x0, y0)
		return
	}
	large := 0
	if delta > math.Pi {
		large = 1
	}
	x1, y1 := cx+r*math.Cos(start+dir*delta), cy+r*math.Sin(start+dir*delta)
	fmt.Fprintf(&s.path, "A%.2f %.2f 0 %d %d %.2f %.2f ", r, r, large, sweep, x1, y1)
}

func (s *SVGSurface) ClosePath() {
	s.path.WriteString("Z")
}

func (s *SVGSurface) SetFillColor(c string)   { s.state.fill = c }
func (s *SVGSurface) SetStrokeColor(c string) { s.state.stroke = c }
func (s *SVGSurface) SetLineWidth(w float64)  { s.state.lineWidth = w }
func (s *SVGSurface) SetFontSize(size float64) {
	s.state.fontSize = size
}

func (s *SVGSurface) Fill() {
	s.canvas.Path(strings.TrimSpace(s.path.String()), fmt.Sprintf("fill:%s;stroke:none", s.state.fill))
}

func (s *SVGSurface) Stroke() {
	s.canvas.Path(strings.TrimSpace(s.path.String()),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f", s.state.stroke, s.state.lineWidth))
}

// MeasureText approximates a monospace font at 0.6 em per terminal cell.
func (s *SVGSurface) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * s.state.fontSize * 0.6
}

// FillText positions text through a translate so fractional coordinates
// survive svgo's integer text API.
func (s *SVGSurface) FillText(text string, x, y float64) {
	s.canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f)", x, y))
	s.canvas.Text(0, 0, text, fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace", s.state.fill, s.state.fontSize))
	s.canvas.Gend()
}

func (s *SVGSurface) Save() {
	s.stack = append(s.stack, s.state)
	s.state.groups = 0
}

func (s *SVGSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.closeGroups()
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *SVGSurface) closeGroups() {
	for ; s.state.groups > 0; s.state.groups-- {
		s.canvas.Gend()
	}
}

func (s *SVGSurface) Translate(x, y float64) {
	s.canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f)", x, y))
	s.state.groups++
}

func (s *SVGSurface) Rotate(angle float64) {
	s.canvas.Gtransform(fmt.Sprintf("rotate(%.4f)", angle*180/math.Pi))
	s.state.groups++
}
