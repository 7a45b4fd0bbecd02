package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/navigate"
	"github.com/dgallion1/docwheel/internal/render"
)

// cellAspect is how many surface units tall one terminal cell is; cells are
// roughly twice as tall as they are wide.
const cellAspect = 2.0

type cell struct {
	bg string
	ch rune // 0 for the trailing half of a wide rune
}

// toSurface maps a terminal cell to the surface point at its centre.
func toSurface(col, row int) (float64, float64) {
	return float64(col) + 0.5, (float64(row) + 0.5) * cellAspect
}

// raster samples f at every cell centre. Cells inside a section take its
// colour; the selected section takes the highlight colour.
func raster(f layout.Frame, selected int, p render.Palette, opts layout.Options, cols, rows int) [][]cell {
	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c].ch = ' '
			if f.Empty() {
				continue
			}
			x, y := toSurface(c, r)
			if math.Hypot(x-f.CenterX, y-f.CenterY) <= f.RootRadius {
				grid[r][c].bg = p.Root
				continue
			}
			for i, s := range f.Sections {
				if navigate.Contains(s, x, y) {
					grid[r][c].bg = p.Color(s)
					if i == selected {
						grid[r][c].bg = p.Highlight
					}
					break
				}
			}
		}
	}
	if f.Empty() {
		return grid
	}

	for _, s := range f.Sections {
		if !layout.LabelFits(s, opts) {
			continue
		}
		x, y := s.Point(s.MidAngle(), s.MidRadius())
		width := int(math.Min(layout.LabelArc(s, opts), 2*(s.OuterRadius-s.InnerRadius)))
		place(grid, s.Title, x, y, width)
	}
	place(grid, f.RootTitle, f.CenterX, f.CenterY, int(2*f.RootRadius))
	return grid
}

// place writes text centred on surface point (x, y), truncated to width
// columns.
func place(grid [][]cell, text string, x, y float64, width int) {
	if width <= 0 || len(grid) == 0 {
		return
	}
	text = runewidth.Truncate(text, width, "…")
	row := int(y / cellAspect)
	if row < 0 || row >= len(grid) {
		return
	}
	col := int(x) - runewidth.StringWidth(text)/2
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col >= 0 && col+w <= len(grid[row]) {
			grid[row][col].ch = r
			for k := 1; k < w; k++ {
				grid[row][col+k].ch = 0
			}
		}
		col += w
	}
}

// paint renders the grid, styling runs of equal background together.
func paint(grid [][]cell, p render.Palette) string {
	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].bg == row[start].bg {
				continue
			}
			b.WriteString(run(row[start:i], p))
			start = i
		}
	}
	return b.String()
}

func run(cells []cell, p render.Palette) string {
	if len(cells) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range cells {
		if c.ch != 0 {
			b.WriteRune(c.ch)
		}
	}
	if cells[0].bg == "" {
		return b.String()
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(cells[0].bg)).
		Foreground(lipgloss.Color(p.Text)).
		Render(b.String())
}
