package universe

//Delta is the difference between two generations, both slices are sorted
type Delta struct {
	Born []Cell
	Died []Cell
}

//Empty reports whether nothing has changed
func (d Delta) Empty() bool {
	return len(d.Born) == 0 && len(d.Died) == 0
}

//Engine calculates the delta to the next generation, the live set is not modified
type Engine func(live *LiveSet) Delta

//Engines is the registry of the available engines
var Engines = map[string]Engine{
	"sparse": Sparse,
	"scan":   Scan,
}

//DefEngine is the engine used when none is chosen
const DefEngine = "sparse"

//Advance returns the next generation of the live set
//the argument is left untouched
func Advance(live *LiveSet) *LiveSet {
	next := live.Clone()
	next.Apply(Sparse(live))
	return next
}

//tally is the result of the neighbour counting pass
type tally struct {
	counts     map[Cell]int
	candidates map[Cell]struct{}
}

//countNeighbours walks the Moore neighbourhood of each live cell once
//a cell becomes a spawn candidate when its count reaches 3 and stops being one at 4,
//counts only grow during the pass, so the candidates left are exactly the cells with 3 neighbours
func countNeighbours(live *LiveSet) tally {
	t := tally{
		counts:     make(map[Cell]int, live.Len()*len(neighbourDelta)),
		candidates: make(map[Cell]struct{}),
	}
	for c := range live.cells {
		for _, d := range neighbourDelta {
			n := c.Add(d)
			count := t.counts[n] + 1
			t.counts[n] = count
			switch count {
			case 3:
				t.candidates[n] = struct{}{}
			case 4:
				delete(t.candidates, n)
			}
		}
	}
	return t
}

/*
	Sparse is the generation engine for the unbounded plane
	only the neighbourhoods of the live cells are visited,
	so the cost depends on the live cells count, not on the occupied area
*/
func Sparse(live *LiveSet) (d Delta) {
	t := countNeighbours(live)
	for c := range live.cells {
		switch t.counts[c] {
		case 2:
		case 3:
			//alive already, it's a survivor and not a birth
			delete(t.candidates, c)
		default:
			d.Died = append(d.Died, c)
		}
	}
	for c := range t.candidates {
		d.Born = append(d.Born, c)
	}
	SortCells(d.Born)
	SortCells(d.Died)
	return
}
