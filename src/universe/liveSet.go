package universe

import "iter"

//EventKind tells whether the cell was born or died
type EventKind int

const (
	Born EventKind = iota
	Died
)

func (k EventKind) String() string {
	if k == Born {
		return "born"
	}
	return "died"
}

//Event is the one change of the live set
type Event struct {
	Cell Cell
	Kind EventKind
}

/*
	LiveSet is the set of the alive cells
	only the live cells are stored, the plane itself is never allocated
	the listener (if any) is called once per actually added or removed cell
*/
type LiveSet struct {
	cells    map[Cell]struct{}
	listener func(Event)
}

//NewLiveSet creates the set populated with cells, duplicates are collapsed
func NewLiveSet(cells ...Cell) *LiveSet {
	s := &LiveSet{cells: make(map[Cell]struct{}, len(cells))}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	return s
}

//Observe sets the listener of the Born/Died events, nil removes it
func (s *LiveSet) Observe(fn func(Event)) {
	s.listener = fn
}

//Len returns the number of the live cells
func (s *LiveSet) Len() int {
	return len(s.cells)
}

//Contains reports whether the cell is alive
func (s *LiveSet) Contains(c Cell) bool {
	_, ok := s.cells[c]
	return ok
}

//Insert makes the cell alive, returns false if it was alive already
func (s *LiveSet) Insert(c Cell) bool {
	if _, ok := s.cells[c]; ok {
		return false
	}
	s.cells[c] = struct{}{}
	s.emit(c, Born)
	return true
}

//Remove kills the cell, returns false if it was dead already
func (s *LiveSet) Remove(c Cell) bool {
	if _, ok := s.cells[c]; !ok {
		return false
	}
	delete(s.cells, c)
	s.emit(c, Died)
	return true
}

//Toggle inverses the cell state and returns the new one
func (s *LiveSet) Toggle(c Cell) (alive bool) {
	if s.Remove(c) {
		return false
	}
	s.Insert(c)
	return true
}

//All iterates over the live cells in no particular order
//the set must not be changed while iterating, use Cells to get a snapshot
func (s *LiveSet) All() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for c := range s.cells {
			if !yield(c) {
				return
			}
		}
	}
}

//Cells returns the sorted snapshot of the live cells
func (s *LiveSet) Cells() []Cell {
	cells := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		cells = append(cells, c)
	}
	SortCells(cells)
	return cells
}

//Clone copies the cells, the listener is not copied
func (s *LiveSet) Clone() *LiveSet {
	n := &LiveSet{cells: make(map[Cell]struct{}, len(s.cells))}
	for c := range s.cells {
		n.cells[c] = struct{}{}
	}
	return n
}

//Clear kills all the cells
func (s *LiveSet) Clear() {
	for _, c := range s.Cells() {
		s.Remove(c)
	}
}

//Apply applies the generation delta: the died cells are removed first, then the born are inserted
func (s *LiveSet) Apply(d Delta) {
	for _, c := range d.Died {
		s.Remove(c)
	}
	for _, c := range d.Born {
		s.Insert(c)
	}
}

//Equal reports whether both sets hold the same cells
func (s *LiveSet) Equal(o *LiveSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for c := range s.cells {
		if !o.Contains(c) {
			return false
		}
	}
	return true
}

//Bounds returns the bounding box of the live cells, ok is false for the empty set
func (s *LiveSet) Bounds() (lo Cell, hi Cell, ok bool) {
	for c := range s.cells {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.X, hi.X = min(lo.X, c.X), max(hi.X, c.X)
		lo.Y, hi.Y = min(lo.Y, c.Y), max(hi.Y, c.Y)
	}
	return
}

func (s *LiveSet) emit(c Cell, k EventKind) {
	if s.listener != nil {
		s.listener(Event{c, k})
	}
}
