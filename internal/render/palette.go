package render

import (
	"math"

	"github.com/dgallion1/docwheel/internal/layout"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette assigns section colours: hue follows the mid-angle so siblings
// spread around the wheel, and rings lighten with depth.
type Palette struct {
	Chroma     float64
	Luminance  float64 // Luminance of the first ring
	DepthShift float64 // Luminance added per ring
	Root       string
	Edge       string
	Highlight  string
	Text       string
}

// DefaultPalette returns the standard colours.
func DefaultPalette() Palette {
	return Palette{
		Chroma:     0.45,
		Luminance:  0.62,
		DepthShift: 0.07,
		Root:       "#2d3142",
		Edge:       "#ffffff",
		Highlight:  "#ff9f1c",
		Text:       "#1b1b1e",
	}
}

// Color returns the fill colour of s as a hex string.
func (p Palette) Color(s layout.Section) string {
	hue := s.MidAngle() * 180 / math.Pi
	return colorful.Hcl(hue, p.Chroma, p.luminance(s.Depth)).Clamped().Hex()
}

func (p Palette) luminance(depth int) float64 {
	l := p.Luminance + p.DepthShift*float64(depth-1)
	return math.Min(l, 0.95)
}
