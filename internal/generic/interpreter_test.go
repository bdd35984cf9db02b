package generic

import (
	"testing"

	"github.com/mdelaney-dev/broadside/internal/board"
)

func loadBuiltin(t *testing.T, name string) *Document {
	t.Helper()
	data, err := builtinDocs.ReadFile("docs/" + name)
	if err != nil {
		t.Fatalf("Failed to read embedded document %s: %v", name, err)
	}
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", name, err)
	}
	return doc
}

func TestInterpreterTransitionsOnHit(t *testing.T) {
	doc := loadBuiltin(t, "p2m2_json.json")
	in := New(doc, 10, 1)

	if in.CurrentState() != "HUNT" {
		t.Fatalf("Expected initial state HUNT, got %q", in.CurrentState())
	}
	if in.Variable("ships_found_count") != 0 {
		t.Fatalf("Counter should start at 0, got %d", in.Variable("ships_found_count"))
	}

	view := board.NewView(10)
	first, err := in.NextShot(view, nil)
	if err != nil {
		t.Fatalf("First shot failed: %v", err)
	}
	if in.CurrentState() != "HUNT" {
		t.Errorf("Machine left HUNT without a hit: %q", in.CurrentState())
	}

	// Report the first shot as a hit; the machine must move to TARGET
	// and bump the counter during the entry actions.
	view[first.R][first.C] = board.CellHit
	second, err := in.NextShot(view, []board.Coord{first})
	if err != nil {
		t.Fatalf("Second shot failed: %v", err)
	}
	if in.CurrentState() != "TARGET" {
		t.Errorf("Expected TARGET after a hit, got %q", in.CurrentState())
	}
	if in.Variable("ships_found_count") != 1 {
		t.Errorf("Expected ships_found_count 1, got %d", in.Variable("ships_found_count"))
	}

	// The targeted shot comes from the priority queue: either the p2m2
	// pattern or an adjacent cell of the hit.
	dr := abs(second.R - first.R)
	dc := abs(second.C - first.C)
	pattern := (dr == 0 && (dc == 1 || dc == 2)) || (dc == 0 && (dr == 1 || dr == 2))
	if !pattern {
		t.Errorf("Targeted shot (%d,%d) not in the hit's pattern around (%d,%d)",
			second.R, second.C, first.R, first.C)
	}
}

func TestInterpreterMissReturnsToHunt(t *testing.T) {
	doc := loadBuiltin(t, "p2m2_json.json")
	in := New(doc, 10, 2)
	view := board.NewView(10)

	first, err := in.NextShot(view, nil)
	if err != nil {
		t.Fatalf("First shot failed: %v", err)
	}
	view[first.R][first.C] = board.CellHit
	hits := []board.Coord{first}

	// Miss every targeted shot; once the priority queue drains the
	// machine must transition back to HUNT.
	returned := false
	for i := 0; i < 20; i++ {
		shot, err := in.NextShot(view, hits)
		if err != nil {
			t.Fatalf("Shot %d failed: %v", i, err)
		}
		view[shot.R][shot.C] = board.CellMiss
		if i > 0 && in.CurrentState() == "HUNT" {
			returned = true
			break
		}
	}
	if !returned {
		t.Error("Machine stuck in TARGET after draining the queue")
	}
}

func TestInterpreterPlaysFullGame(t *testing.T) {
	for _, name := range []string{"random_search_json.json", "p2m2_json.json"} {
		doc := loadBuiltin(t, name)
		in := New(doc, 10, 9)

		grid := make([][]string, 10)
		for r := range grid {
			grid[r] = make([]string, 10)
		}
		for c := 3; c <= 7; c++ {
			grid[4][c] = "Carrier"
		}
		grid[8][1] = "Destroyer"
		grid[9][1] = "Destroyer"

		b, err := board.FromGrid(grid)
		if err != nil {
			t.Fatalf("FromGrid failed: %v", err)
		}

		fired := make(map[board.Coord]bool)
		var hits []board.Coord
		shots := 0
		for !b.IsOver() {
			if shots >= 100 {
				t.Fatalf("%s: fleet not sunk after covering the board", doc.Name)
			}
			shot, err := in.NextShot(b.View(), hits)
			if err != nil {
				t.Fatalf("%s: NextShot failed at %d: %v", doc.Name, shots, err)
			}
			if fired[shot] {
				t.Fatalf("%s: repeated shot (%d,%d)", doc.Name, shot.R, shot.C)
			}
			fired[shot] = true
			shots++
			if b.TakeShot(shot.R, shot.C) == board.Hit {
				hits = append(hits, shot)
			}
		}
	}
}

func TestInterpreterDeterministicPerSeed(t *testing.T) {
	doc := loadBuiltin(t, "random_search_json.json")
	a := New(doc, 10, 77)
	b := New(doc, 10, 77)

	view := board.NewView(10)
	for i := 0; i < 25; i++ {
		shotA, errA := a.NextShot(view, nil)
		shotB, errB := b.NextShot(view, nil)
		if errA != nil || errB != nil {
			t.Fatalf("NextShot failed: %v / %v", errA, errB)
		}
		if shotA != shotB {
			t.Fatalf("Same seed diverged at shot %d: %v vs %v", i, shotA, shotB)
		}
	}
}

func TestDiagonalHuntParity(t *testing.T) {
	raw := `{
		"name": "Diagonal",
		"initial_state": "HUNT",
		"queues": ["q"],
		"states": {
			"HUNT": {
				"on_entry": [{"action": "generate_diagonal_hunt", "queue": "q"}],
				"next_shot": [{"action": "pop_from_queue", "queue": "q"}]
			}
		}
	}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	in := New(doc, 10, 1)
	view := board.NewView(10)

	// Fifty parity-0 cells exist on a 10x10 board; every queued shot
	// stays on that parity.
	for i := 0; i < 50; i++ {
		shot, err := in.NextShot(view, nil)
		if err != nil {
			t.Fatalf("Shot %d failed: %v", i, err)
		}
		if (shot.R+shot.C)%2 != 0 {
			t.Fatalf("Shot %d at (%d,%d) off the diagonal parity", i, shot.R, shot.C)
		}
		view[shot.R][shot.C] = board.CellMiss
	}
}

func TestVariableGuardSkipsAction(t *testing.T) {
	raw := `{
		"name": "Guarded",
		"initial_state": "A",
		"queues": ["q"],
		"variables": {"v": 5},
		"states": {
			"A": {
				"on_entry": [{"action": "generate_diagonal_hunt", "queue": "q"}],
				"next_shot": [
					{"action": "pop_from_queue", "queue": "q",
					 "condition": {"variable_less_equal": {"name": "v", "value": 0}}},
					{"action": "generate_random_shot"}
				]
			}
		}
	}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	in := New(doc, 10, 3)
	view := board.NewView(10)

	// v=5 fails the <=0 guard, so the queue is never popped and its
	// head stays put while random shots land elsewhere eventually.
	if _, err := in.NextShot(view, nil); err != nil {
		t.Fatalf("NextShot failed: %v", err)
	}
	if got := len(in.queues["q"]); got != 50 {
		t.Errorf("Guarded pop consumed the queue: %d cells left, expected 50", got)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
