package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// SmartTarget is a hunt/target strategy built around adjacency clustering of
// hits and boxed-in sunk detection. It deliberately has no "no-fly zone"
// around sunk ships: touching fleets would make that assumption wrong more
// often than it helps.
type SmartTarget struct {
	boardSize int
	sizes     []int
	rng       *rand.Rand

	fired     firedSet
	clusters  *clusterTracker
	huntOrder []board.Coord
	huntNext  int
	lastShot  *board.Coord
}

// NewSmartTarget returns a seeded SmartTarget aware of the fleet's ship
// sizes.
func NewSmartTarget(boardSize int, cfg board.Config, seed uint64) *SmartTarget {
	a := &SmartTarget{
		boardSize: boardSize,
		sizes:     cfg.Sizes(),
		rng:       newRand(seed),
		clusters:  newClusterTracker(nil),
	}
	a.Reset()
	return a
}

func (a *SmartTarget) Name() string { return "Smart Target" }

// Reset re-rolls the hunt parity and rebuilds all per-game state.
func (a *SmartTarget) Reset() {
	a.fired = make(firedSet)
	a.clusters.reset(a.sizes)
	a.lastShot = nil
	a.huntOrder = checkerboard(a.boardSize, a.rng.IntN(2), a.rng)
	a.huntNext = 0
}

func (a *SmartTarget) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	// A miss is the moment a cluster can turn out to be boxed in, so that is
	// when sunk ships are swept.
	if a.lastShot != nil && view[a.lastShot.R][a.lastShot.C] == board.CellMiss {
		a.clusters.sweepSunk(a.candidatesFor, a.unfiredOnBoard)
	}
	a.clusters.absorb(hits)

	for _, g := range a.clusters.bySize() {
		for _, shot := range a.candidatesFor(g) {
			if a.unfiredOnBoard(shot) {
				return a.take(shot), nil
			}
		}
	}

	for a.huntNext < len(a.huntOrder) {
		shot := a.huntOrder[a.huntNext]
		a.huntNext++
		if a.unfiredOnBoard(shot) {
			return a.take(shot), nil
		}
	}

	shot, err := randomUnfired(a.boardSize, a.fired, a.rng)
	if err != nil {
		return board.Coord{}, err
	}
	return a.take(shot), nil
}

// candidatesFor generates target candidates by cluster shape: a lone hit
// probes its four neighbors, a straight line extends past both ends, and a
// non-linear clump (touching ships) falls back to every cell adjacent to the
// cluster.
func (a *SmartTarget) candidatesFor(g *cluster) []board.Coord {
	if g.size() == 1 {
		adj := adjacentPattern(g.cells[0])
		return adj[:]
	}
	nRows, nCols, minR, maxR, minC, maxC := g.rowsCols()
	switch {
	case nRows == 1:
		return []board.Coord{{R: minR, C: minC - 1}, {R: minR, C: maxC + 1}}
	case nCols == 1:
		return []board.Coord{{R: minR - 1, C: minC}, {R: maxR + 1, C: minC}}
	default:
		return clusterPerimeter(g)
	}
}

func (a *SmartTarget) unfiredOnBoard(c board.Coord) bool {
	return inBounds(c, a.boardSize) && !a.fired.has(c)
}

func (a *SmartTarget) take(shot board.Coord) board.Coord {
	a.fired.add(shot)
	a.lastShot = &shot
	return shot
}

// clusterPerimeter returns every cell adjacent to the cluster but not in it,
// deduplicated, in the cluster's sorted cell order.
func clusterPerimeter(g *cluster) []board.Coord {
	var out []board.Coord
	for _, hit := range g.cells {
		for _, adj := range adjacentPattern(hit) {
			if g.has(adj) || containsCoord(out, adj) {
				continue
			}
			out = append(out, adj)
		}
	}
	return out
}
