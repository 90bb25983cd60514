package render

import (
	"strings"

	"github.com/matzehuels/floorpack/pkg/solution"
)

// ASCII draws the strip as a character grid, top row first. Module i is
// drawn with the i-th glyph of A-Z, a-z, 0-9 ('#' beyond that); free cells
// are '.'.
func ASCII(sol *solution.Solution, opts ...Option) string {
	o := newOptions(opts)
	h := sol.Height
	if used := sol.UsedHeight(); used > h {
		h = used
	}
	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", sol.Width))
	}
	for i, p := range sol.Placements {
		g := moduleGlyph(i)
		if !o.labels {
			g = '#'
		}
		for y := p.Y; y < p.Top() && y < h; y++ {
			for x := p.X; x < p.Right() && x < sol.Width; x++ {
				grid[y][x] = g
			}
		}
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", sol.Width) + "+\n"
	b.WriteString(border)
	for y := h - 1; y >= 0; y-- {
		b.WriteByte('|')
		b.Write(grid[y])
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
