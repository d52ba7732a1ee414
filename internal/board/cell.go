// Package board holds the sweep grid: cells of a closed set of types that are
// covered at the start of a round and revealed one by one.
package board

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// CellType is the match category of a cell. Values are ordered from the
// lowest to the highest base reward.
type CellType int

const (
	Program CellType = iota
	User
	Clue
	Flynn
)

// AllCellTypes lists every CellType in canonical order.
var AllCellTypes = []CellType{Program, User, Clue, Flynn}

// String returns the config/storage name of the type.
func (t CellType) String() string {
	switch t {
	case Program:
		return "program"
	case User:
		return "user"
	case Clue:
		return "clue"
	case Flynn:
		return "flynn"
	default:
		return fmt.Sprintf("celltype(%d)", int(t))
	}
}

// Valid reports whether t is one of the known types.
func (t CellType) Valid() bool {
	return t >= Program && t <= Flynn
}

// ParseCellType converts a name back into a CellType.
func ParseCellType(name string) (CellType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "program":
		return Program, nil
	case "user":
		return User, nil
	case "clue":
		return Clue, nil
	case "flynn":
		return Flynn, nil
	}
	return 0, fmt.Errorf("board: unknown cell type %q", name)
}

// Winning is the highlight state of a cell. It stays unset until the
// winning cells of the round have been classified.
type Winning int

const (
	WinningUnset Winning = iota
	WinningNo
	WinningYes
)

// Cell is a single grid slot.
type Cell struct {
	index     int
	cellType  CellType
	baseValue int
	anim      CellAnimator

	mu       sync.RWMutex
	revealed bool
	winning  Winning
}

// Index returns the position of the cell in row-major grid order.
func (c *Cell) Index() int {
	return c.index
}

// Type returns the immutable cell type.
func (c *Cell) Type() CellType {
	return c.cellType
}

// BaseValue is the reward listed for the cell type. Informational only.
func (c *Cell) BaseValue() int {
	return c.baseValue
}

// Revealed reports whether the cover has been removed.
func (c *Cell) Revealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revealed
}

// Winning returns the highlight state.
func (c *Cell) Winning() Winning {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.winning
}

// Reveal uncovers the cell and waits for the unveil to be shown.
// Revealing an already revealed cell does nothing.
func (c *Cell) Reveal(ctx context.Context) error {
	c.mu.Lock()
	if c.revealed {
		c.mu.Unlock()
		return nil
	}
	c.revealed = true
	anim := c.anim
	c.mu.Unlock()

	if anim == nil {
		return nil
	}
	return anim.Unveil(ctx, c)
}

// SetWinning marks the cell as part of a winning match (or not) and waits
// for the highlight to be shown.
func (c *Cell) SetWinning(ctx context.Context, winning bool) error {
	c.mu.Lock()
	if winning {
		c.winning = WinningYes
	} else {
		c.winning = WinningNo
	}
	anim := c.anim
	c.mu.Unlock()

	if anim == nil {
		return nil
	}
	return anim.Highlight(ctx, c, winning)
}

// CellState is an immutable copy of a cell used by renderers.
type CellState struct {
	Index     int
	Type      CellType
	BaseValue int
	Revealed  bool
	Winning   Winning
}

// State copies the current cell state.
func (c *Cell) State() CellState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CellState{
		Index:     c.index,
		Type:      c.cellType,
		BaseValue: c.baseValue,
		Revealed:  c.revealed,
		Winning:   c.winning,
	}
}
