package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Recorder is a Surface that logs every call. Text measurement assumes a
// monospace font where one terminal cell is 0.6 em wide.
type Recorder struct {
	Calls    []string
	fontSize float64
	depth    int
}

// NewRecorder returns an empty recorder with a 12-unit font.
func NewRecorder() *Recorder {
	return &Recorder{fontSize: 12}
}

func (r *Recorder) log(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) BeginPath()          { r.log("BeginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.log("MoveTo(%.2f,%.2f)", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.log("LineTo(%.2f,%.2f)", x, y) }
func (r *Recorder) ClosePath()          { r.log("ClosePath") }
func (r *Recorder) Fill()               { r.log("Fill") }
func (r *Recorder) Stroke()             { r.log("Stroke") }

func (r *Recorder) Arc(cx, cy, radius, start, end float64, ccw bool) {
	r.log("Arc(%.2f,%.2f,%.2f,%.4f,%.4f,%t)", cx, cy, radius, start, end, ccw)
}

func (r *Recorder) SetFillColor(c string)   { r.log("SetFillColor(%s)", c) }
func (r *Recorder) SetStrokeColor(c string) { r.log("SetStrokeColor(%s)", c) }
func (r *Recorder) SetLineWidth(w float64)  { r.log("SetLineWidth(%.1f)", w) }

func (r *Recorder) SetFontSize(size float64) {
	r.fontSize = size
	r.log("SetFontSize(%.1f)", size)
}

func (r *Recorder) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * r.fontSize * 0.6
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.log("FillText(%q,%.2f,%.2f)", text, x, y)
}

func (r *Recorder) Save() {
	r.depth++
	r.log("Save")
}

func (r *Recorder) Restore() {
	r.depth--
	r.log("Restore")
}

func (r *Recorder) Translate(x, y float64) { r.log("Translate(%.2f,%.2f)", x, y) }
func (r *Recorder) Rotate(angle float64)   { r.log("Rotate(%.4f)", angle) }

// Depth returns the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return r.depth
}
