package universe

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestAdvance_Patterns(t *testing.T) {
	tests := []struct {
		name string
		live []Cell
		want []Cell
	}{
		{"empty", nil, nil},
		{"lone cell dies", []Cell{{0, 0}}, nil},
		{"pair dies", []Cell{{0, 0}, {1, 0}}, nil},
		{"blinker", []Cell{{-1, 0}, {0, 0}, {1, 0}}, []Cell{{0, -1}, {0, 0}, {0, 1}}},
		{"block", []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
		{
			"seed",
			[]Cell{{0, 0}, {-1, 0}, {0, -1}, {0, 1}, {1, 1}},
			[]Cell{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 1}},
		},
		{
			"far from the origin",
			[]Cell{{1 << 40, -1 << 40}, {1<<40 + 1, -1 << 40}, {1<<40 + 2, -1 << 40}},
			[]Cell{{1<<40 + 1, -1<<40 - 1}, {1<<40 + 1, -1 << 40}, {1<<40 + 1, -1<<40 + 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := NewLiveSet(tt.live...)
			got := Advance(live)
			if want := NewLiveSet(tt.want...); !got.Equal(want) {
				t.Fatalf("expected %v, got %v", want.Cells(), got.Cells())
			}
			if !live.Equal(NewLiveSet(tt.live...)) {
				t.Fatalf("the input must not change, got %v", live.Cells())
			}
		})
	}
}

func TestAdvance_BlinkerOscillates(t *testing.T) {
	horizontal := NewLiveSet(Cell{-1, 0}, Cell{0, 0}, Cell{1, 0})
	vertical := NewLiveSet(Cell{0, -1}, Cell{0, 0}, Cell{0, 1})

	first := Advance(horizontal)
	if !first.Equal(vertical) {
		t.Fatalf("expected vertical blinker, got %v", first.Cells())
	}
	if second := Advance(first); !second.Equal(horizontal) {
		t.Fatalf("expected horizontal blinker, got %v", second.Cells())
	}
}

func TestAdvance_GliderMoves(t *testing.T) {
	var glider Template
	for _, tmpl := range DefaultTemplates {
		if tmpl.Name == "glider" {
			glider = tmpl
		}
	}
	live := NewLiveSet(glider.Cells...)
	for i := 0; i < 4; i++ {
		live = Advance(live)
	}
	want := NewLiveSet()
	for _, c := range glider.Cells {
		want.Insert(c.Add(Cell{1, -1}))
	}
	if !live.Equal(want) {
		t.Fatalf("expected %v, got %v", want.Cells(), live.Cells())
	}
}

func TestSparse_DeltaIsSorted(t *testing.T) {
	d := Sparse(NewLiveSet(Cell{0, 0}, Cell{-1, 0}, Cell{0, -1}, Cell{0, 1}, Cell{1, 1}))
	want := Delta{
		Born: []Cell{{-1, -1}, {-1, 1}},
		Died: []Cell{{0, 0}},
	}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("expected %+v, got %+v", want, d)
	}
}

func TestSparse_IsDeterministic(t *testing.T) {
	live := randomSoup(rand.New(rand.NewSource(7)), 30, 0.4)
	first := Sparse(live)
	for i := 0; i < 10; i++ {
		if d := Sparse(live.Clone()); !reflect.DeepEqual(d, first) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestSparse_MatchesScan(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		live := randomSoup(rnd, 16, 0.35)
		for gen := 0; gen < 10; gen++ {
			sparse, scan := Sparse(live), Scan(live)
			if !reflect.DeepEqual(sparse, scan) {
				t.Fatalf("soup %d generation %d: sparse %+v, scan %+v", i, gen, sparse, scan)
			}
			live.Apply(sparse)
		}
	}
}

func TestCountNeighbours_StaysInsideNeighbourhoods(t *testing.T) {
	live := NewLiveSet(Cell{0, 0}, Cell{-1, 0}, Cell{0, -1}, Cell{0, 1}, Cell{1, 1}, Cell{100, 100})
	near := func(c Cell) bool {
		for l := range live.All() {
			dx, dy := c.X-l.X, c.Y-l.Y
			if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && (dx != 0 || dy != 0) {
				return true
			}
		}
		return false
	}

	tl := countNeighbours(live)
	if len(tl.counts) > live.Len()*8 {
		t.Fatalf("accumulator has %d entries for %d live cells", len(tl.counts), live.Len())
	}
	for c, n := range tl.counts {
		if !near(c) {
			t.Fatalf("%v is not adjacent to any live cell", c)
		}
		if n < 1 || n > 8 {
			t.Fatalf("%v has impossible count %d", c, n)
		}
	}
	for c := range tl.candidates {
		if tl.counts[c] != 3 {
			t.Fatalf("candidate %v has count %d", c, tl.counts[c])
		}
	}
	for c := range Advance(live).All() {
		if !near(c) {
			t.Fatalf("%v is alive but was not adjacent to any live cell", c)
		}
	}
}

func TestCountNeighbours_CandidatesAreExactlyThree(t *testing.T) {
	live := randomSoup(rand.New(rand.NewSource(3)), 20, 0.5)
	tl := countNeighbours(live)
	for c, n := range tl.counts {
		_, candidate := tl.candidates[c]
		if candidate != (n == 3) {
			t.Fatalf("%v: count %d, candidate %v", c, n, candidate)
		}
	}
}

func TestApplyConwayRules(t *testing.T) {
	for n := 0; n <= 8; n++ {
		if got, want := ApplyConwayRules(n, true), n == 2 || n == 3; got != want {
			t.Errorf("alive with %d neighbours: expected %v", n, want)
		}
		if got, want := ApplyConwayRules(n, false), n == 3; got != want {
			t.Errorf("dead with %d neighbours: expected %v", n, want)
		}
	}
}

func randomSoup(rnd *rand.Rand, size int, density float64) *LiveSet {
	s := NewLiveSet()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if rnd.Float64() < density {
				s.Insert(Cell{int64(x - size/2), int64(y - size/2)})
			}
		}
	}
	return s
}

func BenchmarkEngines(b *testing.B) {
	names := []string{"scan", "sparse"}
	for _, name := range names {
		b.Run(name, func(b *testing.B) {
			engine := Engines[name]
			live := randomSoup(rand.New(rand.NewSource(1)), 64, 0.3)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				live.Apply(engine(live))
			}
		})
	}
}
