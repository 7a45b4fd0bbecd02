// Package render draws a layout frame onto an immediate-mode 2D surface.
package render

// Surface is the drawing contract: canvas-style path construction, fill and
// stroke, baseline-aligned text and a save/restore transform stack. Text is
// drawn left-aligned with its baseline at y.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, startAngle, endAngle float64, counterClockwise bool)
	ClosePath()

	SetFillColor(color string)
	SetStrokeColor(color string)
	SetLineWidth(width float64)
	Fill()
	Stroke()

	SetFontSize(size float64)
	MeasureText(text string) float64
	FillText(text string, x, y float64)

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
}

// withTransform runs draw between Save and Restore, so transforms applied
// inside never leak to the next label.
func withTransform(s Surface, draw func()) {
	s.Save()
	defer s.Restore()
	draw()
}
