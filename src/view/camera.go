package view

import "sparselife/src/universe"

//zoom limits, one glyph shows scale x scale cells
const (
	minScale = 1
	maxScale = 16
)

//camera maps the field view positions to the universe cells
//origin is the cell shown at the centre of the view, the y axis points up
type camera struct {
	origin universe.Cell
	scale  int64 //0 means 1
}

func (c camera) zoom() int64 {
	if c.scale < minScale {
		return minScale
	}
	return c.scale
}

//toWorld returns the top left cell of the block under the view position cx, cy of the view with size w x h
func (c camera) toWorld(cx, cy, w, h int) universe.Cell {
	s := c.zoom()
	return universe.Cell{
		X: c.origin.X + int64(cx-w/2)*s,
		Y: c.origin.Y - int64(cy-h/2)*s,
	}
}

//toView returns the view position of the block holding the cell, ok is false if the cell is outside the view
func (c camera) toView(cell universe.Cell, w, h int) (cx, cy int, ok bool) {
	s := c.zoom()
	dx := floorDiv(cell.X-c.origin.X, s) + int64(w/2)
	dy := floorDiv(c.origin.Y-cell.Y, s) + int64(h/2)
	if dx < 0 || dy < 0 || dx >= int64(w) || dy >= int64(h) {
		return 0, 0, false
	}
	return int(dx), int(dy), true
}

//pan moves the camera by dx, dy glyphs
func (c *camera) pan(dx, dy int64) {
	s := c.zoom()
	c.origin = c.origin.Add(universe.Cell{X: dx * s, Y: dy * s})
}

//zoomOut doubles the cells per glyph, zoomIn halves them, both report whether the scale has changed
func (c *camera) zoomOut() bool {
	if c.zoom() >= maxScale {
		return false
	}
	c.scale = c.zoom() * 2
	return true
}

func (c *camera) zoomIn() bool {
	if c.zoom() <= minScale {
		return false
	}
	c.scale = c.zoom() / 2
	return true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
