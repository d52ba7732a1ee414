package board

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// CellAnimator is the display collaborator that shows cell changes.
// Both calls block until the change is visible (or ctx ends).
type CellAnimator interface {
	Unveil(ctx context.Context, c *Cell) error
	Highlight(ctx context.Context, c *Cell, winning bool) error
}

// Options configures a Grid.
type Options struct {
	Rows int
	Cols int

	// Picker chooses the type of each new cell. Defaults to UniformPicker.
	Picker TypePicker

	// Values maps each type to its base reward (shown, not used for scoring).
	Values map[CellType]int

	// Seed for the grid RNG. 0 means time-based.
	Seed int64

	// Animator receives unveil/highlight calls. May be nil.
	Animator CellAnimator
}

// ErrEmptyGrid is returned for grids without rows or columns.
var ErrEmptyGrid = errors.New("board: rows and cols must be positive")

// Grid is a fixed rows x cols collection of cells in row-major order.
type Grid struct {
	rows   int
	cols   int
	picker TypePicker
	values map[CellType]int
	anim   CellAnimator

	mu    sync.RWMutex
	rng   *rand.Rand
	cells []*Cell
}

// NewGrid builds a grid with freshly picked cells.
func NewGrid(opts Options) (*Grid, error) {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, ErrEmptyGrid
	}
	if opts.Picker == nil {
		opts.Picker = UniformPicker{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Grid{
		rows:   opts.Rows,
		cols:   opts.Cols,
		picker: opts.Picker,
		values: opts.Values,
		anim:   opts.Animator,
		rng:    rand.New(rand.NewSource(seed)),
	}
	g.build()
	return g, nil
}

// build replaces every cell. Caller holds mu (or owns g exclusively).
func (g *Grid) build() {
	n := g.rows * g.cols
	cells := make([]*Cell, n)
	for i := range n {
		t := g.picker.Pick(g.rng, AllCellTypes)
		cells[i] = &Cell{
			index:     i,
			cellType:  t,
			baseValue: g.values[t],
			anim:      g.anim,
		}
	}
	g.cells = cells
}

// Reset discards all cells and rebuilds the grid with fresh random types.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.build()
}

// SetAnimator swaps the display collaborator for current and future cells.
func (g *Grid) SetAnimator(a CellAnimator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.anim = a
	for _, c := range g.cells {
		c.mu.Lock()
		c.anim = a
		c.mu.Unlock()
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns rows*cols.
func (g *Grid) Size() int { return g.rows * g.cols }

// Cells returns all cells in grid order.
func (g *Grid) Cells() []*Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// RevealedCells returns the revealed cells in grid order.
func (g *Grid) RevealedCells() []*Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Cell, 0, len(g.cells))
	for _, c := range g.cells {
		if c.Revealed() {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot copies the state of every cell for rendering.
func (g *Grid) Snapshot() []CellState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]CellState, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.State()
	}
	return out
}
