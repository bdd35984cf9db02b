package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

type huntMode uint8

const (
	modeHunt huntMode = iota
	modeTarget
)

// HuntAndTarget is the classic two-phase strategy: hunt on a checkerboard
// parity until something is hit, then work a LIFO stack of cells adjacent to
// known hits until the ship is gone.
type HuntAndTarget struct {
	boardSize int
	rng       *rand.Rand

	mode       huntMode
	huntOrder  []board.Coord
	huntNext   int
	priority   []board.Coord // LIFO
	activeHits map[board.Coord]struct{}
}

// NewHuntAndTarget returns a seeded HuntAndTarget for the given board size.
func NewHuntAndTarget(boardSize int, seed uint64) *HuntAndTarget {
	a := &HuntAndTarget{boardSize: boardSize, rng: newRand(seed)}
	a.Reset()
	return a
}

func (a *HuntAndTarget) Name() string { return "Hunt and Target" }

// Reset rebuilds the hunt order: parity-0 cells shuffled, then parity-1
// cells shuffled as the fallback half.
func (a *HuntAndTarget) Reset() {
	a.mode = modeHunt
	a.priority = a.priority[:0]
	a.activeHits = make(map[board.Coord]struct{})
	a.huntOrder = checkerboard(a.boardSize, 0, a.rng)
	a.huntNext = 0
}

func (a *HuntAndTarget) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	a.updateState(view, hits)

	if a.mode == modeTarget {
		for len(a.priority) > 0 {
			shot := a.priority[len(a.priority)-1]
			a.priority = a.priority[:len(a.priority)-1]
			// A priority cell can have been revealed while sinking a
			// neighboring ship; skip anything no longer unknown.
			if view[shot.R][shot.C] == board.CellUnknown {
				return shot, nil
			}
		}
		// Stack ran dry mid-call: the ship is gone, resume hunting.
		a.mode = modeHunt
		clear(a.activeHits)
	}

	for a.huntNext < len(a.huntOrder) {
		shot := a.huntOrder[a.huntNext]
		a.huntNext++
		if view[shot.R][shot.C] == board.CellUnknown {
			return shot, nil
		}
	}
	return board.Coord{}, ErrExhausted
}

// updateState merges hits that appeared since the last call and queues their
// untried neighbors.
func (a *HuntAndTarget) updateState(view board.View, hits []board.Coord) {
	for _, hit := range hits {
		if _, known := a.activeHits[hit]; known {
			continue
		}
		a.mode = modeTarget
		a.activeHits[hit] = struct{}{}
		r, c := hit.R, hit.C
		for _, next := range [4]board.Coord{{R: r - 1, C: c}, {R: r + 1, C: c}, {R: r, C: c - 1}, {R: r, C: c + 1}} {
			if !inBounds(next, a.boardSize) || view[next.R][next.C] != board.CellUnknown {
				continue
			}
			if !containsCoord(a.priority, next) {
				a.priority = append(a.priority, next)
			}
		}
	}

	// No queued targets means the damaged ship is presumed sunk.
	if a.mode == modeTarget && len(a.priority) == 0 {
		a.mode = modeHunt
		clear(a.activeHits)
	}
}

func containsCoord(cells []board.Coord, c board.Coord) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}
