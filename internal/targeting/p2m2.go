package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// P2M2 fuses a checkerboard hunt with the +/-2 probing pattern. The pattern
// stays on the hunt parity, so a single hit can be chased without ever
// leaving the checkerboard; adjacency shots are only the last resort for
// touching ships.
//
// Priorities while targeting:
//  1. midpoint between two pattern-linked hits,
//  2. the four +/-2 cells around the current hit,
//  3. the four adjacent cells around the current hit.
type P2M2 struct {
	boardSize int
	rng       *rand.Rand

	mode      huntMode
	fired     firedSet
	huntOrder []board.Coord // popped from the end
	allHits   map[board.Coord]struct{}
	priority  []board.Coord // front is the hit being worked

	midpointOrigin *board.Coord
	patternHit     bool
}

// NewP2M2 returns a seeded P2M2 for the given board size.
func NewP2M2(boardSize int, seed uint64) *P2M2 {
	a := &P2M2{boardSize: boardSize, rng: newRand(seed)}
	a.Reset()
	return a
}

func (a *P2M2) Name() string { return "P2M2 Enhanced" }

// Reset re-rolls the hunt parity and clears all targeting state.
func (a *P2M2) Reset() {
	a.mode = modeHunt
	a.fired = make(firedSet)
	a.allHits = make(map[board.Coord]struct{})
	a.priority = a.priority[:0]
	a.midpointOrigin = nil
	a.patternHit = false
	a.huntOrder = checkerboard(a.boardSize, a.rng.IntN(2), a.rng)
}

func (a *P2M2) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	a.updateState(hits)

	if a.mode == modeTarget && len(a.priority) == 0 {
		a.mode = modeHunt
	}

	if a.mode == modeHunt {
		for len(a.huntOrder) > 0 {
			shot := a.huntOrder[len(a.huntOrder)-1]
			a.huntOrder = a.huntOrder[:len(a.huntOrder)-1]
			if !a.fired.has(shot) {
				a.fired.add(shot)
				a.midpointOrigin = nil
				a.patternHit = false
				return shot, nil
			}
		}
	}

	if a.mode == modeTarget {
		for len(a.priority) > 0 {
			origin := a.priority[0]

			if a.patternHit {
				a.patternHit = false
				prev := *a.midpointOrigin
				mid := board.Coord{R: (origin.R + prev.R) / 2, C: (origin.C + prev.C) / 2}
				if a.unfiredOnBoard(mid) {
					a.fired.add(mid)
					return mid, nil
				}
			}

			a.midpointOrigin = &origin
			for _, shot := range p2m2Pattern(origin) {
				if a.unfiredOnBoard(shot) {
					a.fired.add(shot)
					return shot, nil
				}
			}
			for _, shot := range adjacentPattern(origin) {
				if a.unfiredOnBoard(shot) {
					a.fired.add(shot)
					return shot, nil
				}
			}

			// Every pattern around this hit is spent; move to the next one.
			a.priority = a.priority[1:]
		}
	}

	shot, err := randomUnfired(a.boardSize, a.fired, a.rng)
	if err != nil {
		return board.Coord{}, err
	}
	a.fired.add(shot)
	return shot, nil
}

func (a *P2M2) updateState(hits []board.Coord) {
	for _, hit := range hits {
		if _, known := a.allHits[hit]; known {
			continue
		}
		a.mode = modeTarget

		// A new hit landing on the +/-2 pattern of the previous one arms the
		// midpoint rule: the cell between them is almost certainly ship.
		if a.midpointOrigin != nil {
			for _, p := range p2m2Pattern(*a.midpointOrigin) {
				if p == hit {
					a.patternHit = true
					break
				}
			}
		}

		a.allHits[hit] = struct{}{}
		a.priority = append([]board.Coord{hit}, a.priority...)
	}
}

func (a *P2M2) unfiredOnBoard(c board.Coord) bool {
	return inBounds(c, a.boardSize) && !a.fired.has(c)
}
