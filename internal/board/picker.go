package board

import (
	"math/rand"
)

// TypePicker chooses the type of a newly built cell. Implementations see one
// cell at a time; uniform i.i.d. sampling is the default.
type TypePicker interface {
	Pick(rng *rand.Rand, types []CellType) CellType
}

// UniformPicker picks every type with equal probability.
type UniformPicker struct{}

// Pick implements TypePicker.
func (UniformPicker) Pick(rng *rand.Rand, types []CellType) CellType {
	return types[rng.Intn(len(types))]
}

// WeightedPicker picks types proportionally to their weight. Types without
// a positive weight are never picked. If no type has a positive weight it
// falls back to uniform sampling.
type WeightedPicker struct {
	Weights map[CellType]int
}

// Pick implements TypePicker.
func (p WeightedPicker) Pick(rng *rand.Rand, types []CellType) CellType {
	total := 0
	for _, t := range types {
		if w := p.Weights[t]; w > 0 {
			total += w
		}
	}
	if total == 0 {
		return UniformPicker{}.Pick(rng, types)
	}

	r := rng.Intn(total)
	for _, t := range types {
		w := p.Weights[t]
		if w <= 0 {
			continue
		}
		if r < w {
			return t
		}
		r -= w
	}
	return types[len(types)-1]
}
