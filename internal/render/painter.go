package render

import (
	"math"
	"strings"

	"github.com/dgallion1/docwheel/internal/layout"
)

// Painter turns a frame into a deterministic sequence of surface calls.
type Painter struct {
	Palette  Palette
	Options  layout.Options
	FontSize float64
}

// NewPainter returns a painter with default colours and the given geometry
// options, which must match the ones used to compute frames.
func NewPainter(opts layout.Options) *Painter {
	return &Painter{Palette: DefaultPalette(), Options: opts, FontSize: 12}
}

// Paint draws f. selected is the index of the selected section, or -1. An
// empty frame draws nothing.
func (p *Painter) Paint(s Surface, f layout.Frame, selected int) {
	if f.Empty() {
		return
	}

	s.BeginPath()
	s.Arc(f.CenterX, f.CenterY, f.RootRadius, 0, layout.FullCircle, false)
	s.ClosePath()
	s.SetFillColor(p.Palette.Root)
	s.Fill()

	for _, sec := range f.Sections {
		wedge(s, sec)
		s.SetFillColor(p.Palette.Color(sec))
		s.Fill()
		s.SetStrokeColor(p.Palette.Edge)
		s.SetLineWidth(1)
		s.Stroke()
	}

	if selected >= 0 && selected < len(f.Sections) {
		wedge(s, f.Sections[selected])
		s.SetStrokeColor(p.Palette.Highlight)
		s.SetLineWidth(3)
		s.Stroke()
	}

	s.SetFontSize(p.FontSize)
	for _, sec := range f.Sections {
		if layout.LabelFits(sec, p.Options) {
			p.label(s, sec)
		}
	}
	p.rootLabel(s, f)
}

// wedge traces the annular sector of sec.
func wedge(s Surface, sec layout.Section) {
	s.BeginPath()
	s.Arc(sec.CenterX, sec.CenterY, sec.OuterRadius, sec.StartAngle, sec.EndAngle, false)
	s.Arc(sec.CenterX, sec.CenterY, sec.InnerRadius, sec.EndAngle, sec.StartAngle, true)
	s.ClosePath()
}

func (p *Painter) lineHeight() float64 {
	return p.FontSize * 1.2
}

// label draws the title along the section's mid-angle, wrapped to the band
// thickness. Labels on the left half are turned half a circle to stay upright.
func (p *Painter) label(s Surface, sec layout.Section) {
	pad := p.Options.BandPadding
	width := sec.OuterRadius - sec.InnerRadius - 2*pad
	if width <= 0 {
		return
	}
	maxLines := int(layout.LabelArc(sec, p.Options) / p.lineHeight())
	if maxLines < 1 {
		maxLines = 1
	}
	lines := Wrap(s, sec.Title, width, maxLines)
	if len(lines) == 0 {
		return
	}

	mid := sec.MidAngle()
	flip := mid > math.Pi/2 && mid < 3*math.Pi/2
	r := sec.MidRadius()

	withTransform(s, func() {
		s.SetFillColor(p.Palette.Text)
		s.Translate(sec.CenterX, sec.CenterY)
		s.Rotate(mid)
		if flip {
			s.Rotate(math.Pi)
			r = -r
		}
		p.textBlock(s, lines, r, 0)
	})
}

func (p *Painter) rootLabel(s Surface, f layout.Frame) {
	if f.RootTitle == "" {
		return
	}
	lines := Wrap(s, f.RootTitle, f.RootRadius*1.6, int(f.RootRadius*1.6/p.lineHeight()))
	if len(lines) == 0 {
		return
	}
	withTransform(s, func() {
		s.SetFillColor(p.Palette.Edge)
		s.Translate(f.CenterX, f.CenterY)
		p.textBlock(s, lines, 0, 0)
	})
}

// textBlock draws lines centred on (cx, cy) in the current transform.
func (p *Painter) textBlock(s Surface, lines []string, cx, cy float64) {
	lh := p.lineHeight()
	top := cy - lh*float64(len(lines)-1)/2 + p.FontSize*0.35
	for i, line := range lines {
		s.FillText(line, cx-s.MeasureText(line)/2, top+lh*float64(i))
	}
}

const ellipsis = "…"

// Wrap breaks text into at most maxLines lines no wider than width, using
// the surface's text measurement. Overflow is marked with an ellipsis.
func Wrap(s Surface, text string, width float64, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxLines < 1 || width <= 0 {
		return nil
	}
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if s.MeasureText(candidate) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = w
	}
	lines = append(lines, cur)

	truncated := len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		last := i == len(lines)-1
		if s.MeasureText(line) > width || (last && truncated) {
			lines[i] = fit(s, line, width, last && truncated)
		}
	}
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// fit trims line from the right until it, plus an ellipsis, is no wider than
// width. force appends the ellipsis even when the line already fits.
func fit(s Surface, line string, width float64, force bool) string {
	if !force && s.MeasureText(line) <= width {
		return line
	}
	runes := []rune(line)
	for len(runes) > 0 {
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if s.MeasureText(candidate) <= width {
			return candidate
		}
		runes = runes[:len(runes)-1]
	}
	return ""
}
