// Package targeting implements the shot-selection strategies benchmarked by
// the simulator, behind a single Algorithm contract.
package targeting

import (
	"errors"
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// Algorithm is the contract every targeting strategy obeys.
//
// NextShot must be deterministic given its inputs and the instance's own RNG
// stream, and must never return a coordinate it already returned since the
// last Reset. Reset clears all per-game state (the RNG stream keeps
// advancing) so a single instance can play many games back to back.
type Algorithm interface {
	Name() string
	Reset()
	NextShot(view board.View, hits []board.Coord) (board.Coord, error)
}

// Factory constructs a seeded algorithm instance for one board size and
// fleet. Every instance gets its own RNG stream so parallel games stay
// independent and a pinned seed replays identically.
type Factory func(boardSize int, cfg board.Config, seed uint64) Algorithm

// ErrExhausted is returned when every cell on the board has been fired.
// A driver playing a valid game ends before this can happen.
var ErrExhausted = errors.New("no unfired cells remain")

const seedStream = 0x9e3779b97f4a7c15

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}

// firedSet tracks every coordinate an instance has returned.
type firedSet map[board.Coord]struct{}

func (f firedSet) add(c board.Coord)      { f[c] = struct{}{} }
func (f firedSet) has(c board.Coord) bool { _, ok := f[c]; return ok }

func inBounds(c board.Coord, size int) bool {
	return c.R >= 0 && c.R < size && c.C >= 0 && c.C < size
}

// adjacentPattern returns the four axis neighbors of origin.
func adjacentPattern(origin board.Coord) [4]board.Coord {
	r, c := origin.R, origin.C
	return [4]board.Coord{{R: r + 1, C: c}, {R: r - 1, C: c}, {R: r, C: c + 1}, {R: r, C: c - 1}}
}

// p2m2Pattern returns the four cells two steps away on each axis. On a
// checkerboard hunt these stay on the hunt parity, which is why the pattern
// finds the rest of a ship without wasting off-parity shots.
func p2m2Pattern(origin board.Coord) [4]board.Coord {
	r, c := origin.R, origin.C
	return [4]board.Coord{{R: r + 2, C: c}, {R: r - 2, C: c}, {R: r, C: c + 2}, {R: r, C: c - 2}}
}

// checkerboard returns all cells of the chosen parity shuffled, followed by
// all cells of the opposite parity shuffled. The secondary half is the
// fallback for fleets that dodge the primary parity entirely.
func checkerboard(size, parity int, rng *rand.Rand) []board.Coord {
	primary := make([]board.Coord, 0, (size*size+1)/2)
	secondary := make([]board.Coord, 0, size*size/2)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if (r+c)%2 == parity {
				primary = append(primary, board.Coord{R: r, C: c})
			} else {
				secondary = append(secondary, board.Coord{R: r, C: c})
			}
		}
	}
	shuffleCoords(primary, rng)
	shuffleCoords(secondary, rng)
	return append(primary, secondary...)
}

// diagonalSnake returns every cell visited along anti-diagonals, alternating
// direction per diagonal so consecutive cells stay adjacent.
func diagonalSnake(size int) []board.Coord {
	path := make([]board.Coord, 0, size*size)
	for k := 0; k < size*2-1; k++ {
		start := len(path)
		for r := 0; r < size; r++ {
			c := k - r
			if c >= 0 && c < size {
				path = append(path, board.Coord{R: r, C: c})
			}
		}
		if k%2 == 1 {
			reverseCoords(path[start:])
		}
	}
	return path
}

func shuffleCoords(cells []board.Coord, rng *rand.Rand) {
	rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})
}

func reverseCoords(cells []board.Coord) {
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
}

// randomUnfired picks uniformly among all unfired cells, scanning the board
// in row order so the choice depends only on the RNG stream. This is the
// guaranteed-progress fallback valve shared by every strategy.
func randomUnfired(size int, fired firedSet, rng *rand.Rand) (board.Coord, error) {
	open := make([]board.Coord, 0, size*size-len(fired))
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cell := board.Coord{R: r, C: c}
			if !fired.has(cell) {
				open = append(open, cell)
			}
		}
	}
	if len(open) == 0 {
		return board.Coord{}, ErrExhausted
	}
	return open[rng.IntN(len(open))], nil
}
