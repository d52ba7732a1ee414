package board

import (
	"context"
	"math/rand"
	"sync"
	"testing"
)

type countingAnimator struct {
	mu         sync.Mutex
	unveils    int
	highlights map[int]bool
}

func (a *countingAnimator) Unveil(_ context.Context, _ *Cell) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unveils++
	return nil
}

func (a *countingAnimator) Highlight(_ context.Context, c *Cell, winning bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.highlights == nil {
		a.highlights = make(map[int]bool)
	}
	a.highlights[c.Index()] = winning
	return nil
}

func newTestGrid(t *testing.T, rows, cols int) *Grid {
	t.Helper()
	g, err := NewGrid(Options{Rows: rows, Cols: cols, Seed: 42})
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	return g
}

func TestNewGridRejectsEmptyDimensions(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 4},
		{"zero cols", 4, 0},
		{"negative", -1, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGrid(Options{Rows: tc.rows, Cols: tc.cols}); err != ErrEmptyGrid {
				t.Errorf("NewGrid(%d, %d) error = %v, want ErrEmptyGrid", tc.rows, tc.cols, err)
			}
		})
	}
}

func TestGridSizeInvariant(t *testing.T) {
	g := newTestGrid(t, 4, 5)

	if got := len(g.Cells()); got != 20 {
		t.Fatalf("len(Cells()) = %d, want 20", got)
	}
	for i := 0; i < 3; i++ {
		g.Reset()
		if got := len(g.Cells()); got != g.Size() {
			t.Errorf("after Reset len(Cells()) = %d, want %d", got, g.Size())
		}
	}
	for i, c := range g.Cells() {
		if c.Index() != i {
			t.Errorf("cell %d has index %d", i, c.Index())
		}
		if !c.Type().Valid() {
			t.Errorf("cell %d has invalid type %v", i, c.Type())
		}
	}
}

func TestRevealedCellsMonotone(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	ctx := context.Background()

	prev := 0
	for _, c := range g.Cells() {
		if err := c.Reveal(ctx); err != nil {
			t.Fatalf("Reveal() failed: %v", err)
		}
		n := len(g.RevealedCells())
		if n < prev {
			t.Fatalf("revealed count decreased from %d to %d", prev, n)
		}
		if n > g.Size() {
			t.Fatalf("revealed count %d exceeds grid size %d", n, g.Size())
		}
		prev = n
	}
	if prev != 16 {
		t.Errorf("revealed %d cells, want 16", prev)
	}

	g.Reset()
	if n := len(g.RevealedCells()); n != 0 {
		t.Errorf("after Reset revealed = %d, want 0", n)
	}
	for _, st := range g.Snapshot() {
		if st.Winning != WinningUnset {
			t.Errorf("cell %d winning = %v after Reset, want unset", st.Index, st.Winning)
		}
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	anim := &countingAnimator{}
	g, err := NewGrid(Options{Rows: 1, Cols: 2, Seed: 1, Animator: anim})
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	c := g.Cells()[0]

	for i := 0; i < 3; i++ {
		if err := c.Reveal(context.Background()); err != nil {
			t.Fatalf("Reveal() failed: %v", err)
		}
	}
	if !c.Revealed() {
		t.Error("cell should be revealed")
	}
	if anim.unveils != 1 {
		t.Errorf("unveils = %d, want 1", anim.unveils)
	}
}

func TestSetWinning(t *testing.T) {
	anim := &countingAnimator{}
	g, err := NewGrid(Options{Rows: 1, Cols: 2, Seed: 1})
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	g.SetAnimator(anim)

	cells := g.Cells()
	if cells[0].Winning() != WinningUnset {
		t.Fatal("new cell should have unset winning state")
	}
	_ = cells[0].SetWinning(context.Background(), true)
	_ = cells[1].SetWinning(context.Background(), false)

	if cells[0].Winning() != WinningYes {
		t.Errorf("cell 0 winning = %v, want yes", cells[0].Winning())
	}
	if cells[1].Winning() != WinningNo {
		t.Errorf("cell 1 winning = %v, want no", cells[1].Winning())
	}
	if !anim.highlights[0] || anim.highlights[1] {
		t.Errorf("highlights = %v", anim.highlights)
	}
}

func TestBaseValueFromValues(t *testing.T) {
	values := map[CellType]int{Program: 100, User: 200, Clue: 500, Flynn: 1000}
	g, err := NewGrid(Options{Rows: 3, Cols: 3, Seed: 7, Values: values})
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	for _, c := range g.Cells() {
		if c.BaseValue() != values[c.Type()] {
			t.Errorf("cell %d base value = %d, want %d", c.Index(), c.BaseValue(), values[c.Type()])
		}
	}
}

func TestSameSeedSameGrid(t *testing.T) {
	a := newTestGrid(t, 4, 4)
	b := newTestGrid(t, 4, 4)
	ac, bc := a.Cells(), b.Cells()
	for i := range ac {
		if ac[i].Type() != bc[i].Type() {
			t.Fatalf("cell %d: %v != %v", i, ac[i].Type(), bc[i].Type())
		}
	}
}

func TestWeightedPicker(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := WeightedPicker{Weights: map[CellType]int{Clue: 1}}
	for i := 0; i < 100; i++ {
		if got := p.Pick(rng, AllCellTypes); got != Clue {
			t.Fatalf("Pick() = %v, want clue", got)
		}
	}

	empty := WeightedPicker{}
	seen := make(map[CellType]bool)
	for i := 0; i < 500; i++ {
		seen[empty.Pick(rng, AllCellTypes)] = true
	}
	if len(seen) != len(AllCellTypes) {
		t.Errorf("fallback picker saw %d types, want %d", len(seen), len(AllCellTypes))
	}
}

func TestParseCellType(t *testing.T) {
	for _, ct := range AllCellTypes {
		got, err := ParseCellType(ct.String())
		if err != nil || got != ct {
			t.Errorf("ParseCellType(%q) = %v, %v", ct.String(), got, err)
		}
	}
	if _, err := ParseCellType("disc"); err == nil {
		t.Error("ParseCellType(disc) should fail")
	}
}
