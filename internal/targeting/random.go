package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// RandomSearch fires at uniformly random untargeted cells. It is the
// baseline every other strategy is measured against.
type RandomSearch struct {
	boardSize int
	rng       *rand.Rand
	unfired   []board.Coord
}

// NewRandomSearch returns a seeded RandomSearch for the given board size.
func NewRandomSearch(boardSize int, seed uint64) *RandomSearch {
	a := &RandomSearch{boardSize: boardSize, rng: newRand(seed)}
	a.Reset()
	return a
}

func (a *RandomSearch) Name() string { return "Random Search" }

// Reset re-rolls the shot order for a new game.
func (a *RandomSearch) Reset() {
	a.unfired = a.unfired[:0]
	for r := 0; r < a.boardSize; r++ {
		for c := 0; c < a.boardSize; c++ {
			a.unfired = append(a.unfired, board.Coord{R: r, C: c})
		}
	}
	shuffleCoords(a.unfired, a.rng)
}

// NextShot pops the next coordinate from the pre-shuffled order. The view
// and history are ignored: the internal unfired list already excludes every
// returned cell.
func (a *RandomSearch) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	if len(a.unfired) == 0 {
		return board.Coord{}, ErrExhausted
	}
	shot := a.unfired[len(a.unfired)-1]
	a.unfired = a.unfired[:len(a.unfired)-1]
	return shot, nil
}
