package registry

import (
	"testing"

	"github.com/vovakirdan/tron-sweep/internal/board"
)

func TestBuiltinPickers(t *testing.T) {
	for _, name := range []string{"uniform", "weighted"} {
		if !Exists(name) {
			t.Errorf("picker %q not registered", name)
		}
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List() not sorted: %v", list)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("fairness-curve", nil); err == nil {
		t.Error("Create() should fail for unknown picker")
	}
}

func TestCreateWeightedCopiesWeights(t *testing.T) {
	weights := map[board.CellType]int{board.Flynn: 2}
	p, err := Create("weighted", weights)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	weights[board.Flynn] = 99

	wp := p.(board.WeightedPicker)
	if wp.Weights[board.Flynn] != 2 {
		t.Errorf("weight = %d, picker must not alias the config map", wp.Weights[board.Flynn])
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() should panic on duplicate name")
		}
	}()
	Register("uniform", "dup", func(map[board.CellType]int) board.TypePicker { return board.UniformPicker{} })
}
