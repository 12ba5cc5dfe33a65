package universe

import (
	"fmt"
	"sort"
)

//Cell is the coordinate of one cell of the unbounded plane
//it's comparable, so it is used as a map key directly
type Cell struct {
	X int64
	Y int64
}

//neighbourDelta is the Moore neighbourhood of the cell
var neighbourDelta = [8]Cell{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

//Add returns the cell shifted by d
func (c Cell) Add(d Cell) Cell {
	return Cell{c.X + d.X, c.Y + d.Y}
}

//Less orders cells by X, then by Y
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

//SortCells sorts the cells in place in the Less order
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
}
