package targeting

import (
	"errors"
	"sort"
	"testing"

	"github.com/mdelaney-dev/broadside/internal/board"
)

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()

	wantIDs := []string{
		"hunt_target",
		"p2m2",
		"p2m2_directional",
		"p2m2_optimized",
		"random_search",
		"smart_target",
	}
	infos := reg.List()
	if len(infos) != len(wantIDs) {
		t.Fatalf("Expected %d built-in algorithms, got %d", len(wantIDs), len(infos))
	}

	gotIDs := make([]string, len(infos))
	for i, info := range infos {
		gotIDs[i] = info.ID
	}
	sort.Strings(gotIDs)
	for i, want := range wantIDs {
		if gotIDs[i] != want {
			t.Errorf("Missing built-in algorithm %q (got %v)", want, gotIDs)
			break
		}
	}
}

func TestRegistryListSortedByName(t *testing.T) {
	infos := NewRegistry().List()
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name > infos[i].Name {
			t.Fatalf("List not sorted by name: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestRegistryCreateUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create("nope", 10, board.ClassicConfig(), 1)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	factory := func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewRandomSearch(size, seed)
	}
	if err := reg.Register("custom", "Custom", factory); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if err := reg.Register("custom", "Custom Again", factory); err == nil {
		t.Error("Duplicate id accepted")
	}
	if err := reg.Register("", "Anonymous", factory); err == nil {
		t.Error("Empty id accepted")
	}
}

func TestRegistryCreateSeedsInstances(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Create("random_search", 10, board.ClassicConfig(), 42)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := reg.Create("random_search", 10, board.ClassicConfig(), 42)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	view := board.NewView(10)
	for i := 0; i < 10; i++ {
		shotA, errA := a.NextShot(view, nil)
		shotB, errB := b.NextShot(view, nil)
		if errA != nil || errB != nil {
			t.Fatalf("NextShot failed: %v / %v", errA, errB)
		}
		if shotA != shotB {
			t.Fatalf("Same seed produced different shot %d: %v vs %v", i, shotA, shotB)
		}
	}
}
