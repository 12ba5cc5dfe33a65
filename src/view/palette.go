package view

import (
	"math"

	"github.com/logrusorgru/aurora"
	"sparselife/src/universe"
)

//the colours repeat every colourPeriod rings around the origin:
//red at the centre, green at colourBound, blue at 2*colourBound
const (
	colourBound  = 50
	colourPeriod = colourBound * 3

	liveFiller = "█"
)

//ring returns the Chebyshev distance of the cell to the origin modulo colourPeriod
func ring(c universe.Cell) uint64 {
	return max(absInt64(c.X), absInt64(c.Y)) % colourPeriod
}

func absInt64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

//cellColour returns the r, g, b components in [0, 1] for the newly born cell
func cellColour(c universe.Cell) (r, g, b float64) {
	h := float64(ring(c))
	p := h / colourBound
	r = math.Max(1-p, 0) + math.Max(p-2, 0)
	g = math.Min(p, 1) - math.Max(p-1, 0)
	b = math.Max(p-1, 0) - math.Max(h/(colourBound/2)-4, 0)
	return clamp(r), clamp(g), clamp(b)
}

//colourIndex maps the cell colour to the xterm 256 colours cube
func colourIndex(c universe.Cell) uint8 {
	r, g, b := cellColour(c)
	return 16 + 36*cube(r) + 6*cube(g) + cube(b)
}

//sprite is the rendered cell
func sprite(c universe.Cell) string {
	return aurora.Index(colourIndex(c), liveFiller).String()
}

func cube(v float64) uint8 {
	return uint8(math.Round(v * 5))
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
