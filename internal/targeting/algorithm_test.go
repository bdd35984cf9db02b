package targeting

import (
	"testing"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// testGrid is a fixed 10x10 classic-fleet layout used across the
// strategy tests so failures reproduce exactly.
func testGrid() [][]string {
	grid := make([][]string, 10)
	for r := range grid {
		grid[r] = make([]string, 10)
	}
	for c := 0; c <= 4; c++ {
		grid[0][c] = "Carrier"
	}
	for r := 2; r <= 5; r++ {
		grid[r][9] = "Battleship"
	}
	for c := 2; c <= 4; c++ {
		grid[7][c] = "Cruiser"
	}
	for r := 5; r <= 7; r++ {
		grid[r][0] = "Submarine"
	}
	grid[9][6] = "Destroyer"
	grid[9][7] = "Destroyer"
	return grid
}

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.FromGrid(testGrid())
	if err != nil {
		t.Fatalf("Failed to build test board: %v", err)
	}
	return b
}

// playOut drives one full game and fails on any protocol violation:
// off-board shots, repeats, or failing to sink the fleet in time.
func playOut(t *testing.T, algo Algorithm, b *board.Board) []board.Coord {
	t.Helper()
	size := b.Size()
	fired := make(map[board.Coord]bool)
	var hits []board.Coord
	var sequence []board.Coord

	for len(sequence) < size*size {
		shot, err := algo.NextShot(b.View(), hits)
		if err != nil {
			t.Fatalf("%s: NextShot failed after %d shots: %v", algo.Name(), len(sequence), err)
		}
		if !inBounds(shot, size) {
			t.Fatalf("%s: off-board shot (%d,%d)", algo.Name(), shot.R, shot.C)
		}
		if fired[shot] {
			t.Fatalf("%s: repeated shot (%d,%d) after %d shots", algo.Name(), shot.R, shot.C, len(sequence))
		}
		fired[shot] = true
		sequence = append(sequence, shot)

		if b.TakeShot(shot.R, shot.C) == board.Hit {
			hits = append(hits, shot)
		}
		if b.IsOver() {
			return sequence
		}
	}
	t.Fatalf("%s: fleet not sunk after covering the board", algo.Name())
	return nil
}

func allAlgorithms(seed uint64) []Algorithm {
	cfg := board.ClassicConfig()
	return []Algorithm{
		NewRandomSearch(10, seed),
		NewHuntAndTarget(10, seed),
		NewSmartTarget(10, cfg, seed),
		NewP2M2(10, seed),
		NewP2M2Directional(10, cfg, seed),
		NewP2M2Optimized(10, cfg, seed),
	}
}

func TestEveryAlgorithmSinksTheFleet(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		for _, algo := range allAlgorithms(seed) {
			sequence := playOut(t, algo, testBoard(t))
			if len(sequence) < 17 {
				t.Errorf("%s seed %d: sank 17 segments in %d shots", algo.Name(), seed, len(sequence))
			}
		}
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	first := allAlgorithms(99)
	second := allAlgorithms(99)

	for i := range first {
		seqA := playOut(t, first[i], testBoard(t))
		seqB := playOut(t, second[i], testBoard(t))

		if len(seqA) != len(seqB) {
			t.Fatalf("%s: shot counts differ across identical seeds: %d vs %d",
				first[i].Name(), len(seqA), len(seqB))
		}
		for j := range seqA {
			if seqA[j] != seqB[j] {
				t.Fatalf("%s: sequences diverge at shot %d: %v vs %v",
					first[i].Name(), j, seqA[j], seqB[j])
			}
		}
	}
}

func TestResetAllowsAnotherFullGame(t *testing.T) {
	for _, algo := range allAlgorithms(7) {
		playOut(t, algo, testBoard(t))
		algo.Reset()
		playOut(t, algo, testBoard(t))
	}
}

func TestHuntParityBeforeFirstHit(t *testing.T) {
	algo := NewHuntAndTarget(10, 5)
	view := board.NewView(10)

	// With no hits the strategy stays on the primary checkerboard: the
	// first 50 shots all share parity 0.
	for i := 0; i < 50; i++ {
		shot, err := algo.NextShot(view, nil)
		if err != nil {
			t.Fatalf("NextShot failed at %d: %v", i, err)
		}
		if (shot.R+shot.C)%2 != 0 {
			t.Fatalf("Shot %d at (%d,%d) is off the hunt parity", i, shot.R, shot.C)
		}
		view[shot.R][shot.C] = board.CellMiss
	}
}

func TestHuntTargetQueuesAllNeighbors(t *testing.T) {
	algo := NewHuntAndTarget(10, 5)
	view := board.NewView(10)

	// Feed a hit in the middle of the board; the next shots must all be
	// axis neighbors of it until the priority list drains.
	hit := board.Coord{R: 4, C: 4}
	view[hit.R][hit.C] = board.CellHit

	neighbors := map[board.Coord]bool{
		{R: 3, C: 4}: true, {R: 5, C: 4}: true,
		{R: 4, C: 3}: true, {R: 4, C: 5}: true,
	}
	for i := 0; i < 4; i++ {
		shot, err := algo.NextShot(view, []board.Coord{hit})
		if err != nil {
			t.Fatalf("NextShot failed: %v", err)
		}
		if !neighbors[shot] {
			t.Fatalf("Shot %d at (%d,%d) is not a neighbor of the hit", i, shot.R, shot.C)
		}
		delete(neighbors, shot)
		view[shot.R][shot.C] = board.CellMiss
	}
	if len(neighbors) != 0 {
		t.Errorf("Neighbors never targeted: %v", neighbors)
	}
}

func TestDiagonalSnakeCoversBoard(t *testing.T) {
	path := diagonalSnake(6)
	if len(path) != 36 {
		t.Fatalf("Expected 36 cells, got %d", len(path))
	}
	seen := make(map[board.Coord]bool)
	for _, cell := range path {
		if seen[cell] {
			t.Fatalf("Cell (%d,%d) visited twice", cell.R, cell.C)
		}
		seen[cell] = true
	}
	// Consecutive cells on the snake stay adjacent (including diagonals).
	for i := 1; i < len(path); i++ {
		dr := path[i].R - path[i-1].R
		dc := path[i].C - path[i-1].C
		if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
			t.Fatalf("Snake jumps from %v to %v", path[i-1], path[i])
		}
	}
}

func TestCheckerboardOrdering(t *testing.T) {
	cells := checkerboard(10, 1, newRand(3))
	if len(cells) != 100 {
		t.Fatalf("Expected 100 cells, got %d", len(cells))
	}
	// All parity-1 cells come before any parity-0 cell.
	for i, cell := range cells[:50] {
		if (cell.R+cell.C)%2 != 1 {
			t.Fatalf("Primary cell %d at (%d,%d) has wrong parity", i, cell.R, cell.C)
		}
	}
	for i, cell := range cells[50:] {
		if (cell.R+cell.C)%2 != 0 {
			t.Fatalf("Secondary cell %d at (%d,%d) has wrong parity", i, cell.R, cell.C)
		}
	}
}

func TestRandomUnfiredExhaustion(t *testing.T) {
	fired := make(firedSet)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			fired.add(board.Coord{R: r, C: c})
		}
	}
	if _, err := randomUnfired(3, fired, newRand(1)); err != ErrExhausted {
		t.Errorf("Expected ErrExhausted, got %v", err)
	}
}
