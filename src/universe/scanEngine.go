package universe

import (
	"log"
	"math"
	"math/bits"
)

//ScanAreaWarning is the box area the scan engine walks in about a second
const ScanAreaWarning = 1 << 22

/*
	Scan engine walks the whole bounding box of the live cells (plus one cell margin)
	and calculates the next state for each cell of the box
	the box follows the pattern, so the plane stays unbounded,
	but the cost grows with the occupied area. It is kept as the reference for the Sparse engine
	and for the batch benchmarks, two far apart cells make every step walk the whole box between them
*/
func Scan(live *LiveSet) (d Delta) {
	lo, hi, ok := live.Bounds()
	if !ok {
		return
	}
	if area := scanArea(lo, hi); area > ScanAreaWarning {
		log.Printf("scan engine: the box %v..%v has %d cells for %d live ones, the sparse engine is faster here", lo, hi, area, live.Len())
	}
	for x := lo.X - 1; x <= hi.X+1; x++ {
		for y := lo.Y - 1; y <= hi.Y+1; y++ {
			c := Cell{x, y}
			alive := live.Contains(c)
			nextState := ApplyConwayRules(liveNeighbours(live, c), alive)
			switch {
			case nextState && !alive:
				d.Born = append(d.Born, c)
			case !nextState && alive:
				d.Died = append(d.Died, c)
			}
		}
	}
	return
}

//ApplyConwayRules returns the next state of the cell: (alive && neighbours == 2) || neighbours == 3
func ApplyConwayRules(neighbours int, alive bool) bool {
	return (alive && neighbours == 2) || neighbours == 3
}

//liveNeighbours counts the live cells around c
func liveNeighbours(live *LiveSet, c Cell) (n int) {
	for _, d := range neighbourDelta {
		if live.Contains(c.Add(d)) {
			n++
		}
	}
	return
}

//scanArea returns the cells in the box lo..hi with the margin, saturated at math.MaxUint64
func scanArea(lo, hi Cell) uint64 {
	w := uint64(hi.X) - uint64(lo.X) + 3
	h := uint64(hi.Y) - uint64(lo.Y) + 3
	if w < 3 || h < 3 {
		return math.MaxUint64
	}
	carry, area := bits.Mul64(w, h)
	if carry != 0 {
		return math.MaxUint64
	}
	return area
}
