// Package registry provides a global registry of cell type pickers.
// Pickers register by name so the grid's sampling strategy can be chosen
// from configuration without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tron-sweep/internal/board"
)

// DefaultPicker is used when the configuration names no picker.
const DefaultPicker = "uniform"

// Factory builds a picker. weights holds the configured per-type weights;
// pickers that do not use them ignore it.
type Factory func(weights map[board.CellType]int) board.TypePicker

// PickerInfo contains metadata about a registered picker.
type PickerInfo struct {
	Name        string
	Description string
}

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

func init() {
	Register("uniform", "every cell type equally likely, i.i.d. per cell",
		func(map[board.CellType]int) board.TypePicker {
			return board.UniformPicker{}
		})
	Register("weighted", "cell types drawn proportionally to grid.weights",
		func(weights map[board.CellType]int) board.TypePicker {
			w := make(map[board.CellType]int, len(weights))
			for k, v := range weights {
				w[k] = v
			}
			return board.WeightedPicker{Weights: w}
		})
}

// Register adds a picker factory to the registry.
// Panics if a picker with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: picker %q already registered", name))
	}
	factories[name] = f
	descriptions[name] = description
}

// List returns all registered pickers, sorted by name.
func List() []PickerInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PickerInfo, 0, len(factories))
	for name := range factories {
		result = append(result, PickerInfo{Name: name, Description: descriptions[name]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create instantiates a picker by name.
func Create(name string, weights map[board.CellType]int) (board.TypePicker, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown picker %q", name)
	}
	return f(weights), nil
}

// Exists checks if a picker with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
