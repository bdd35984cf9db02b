package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// patternShipCap is how many ships may be found before the +/-2 pattern is
// abandoned for plain adjacency. Pattern probing pays off early; late in the
// game the surviving ships are the small awkward ones it overfits on.
const patternShipCap = 4

// P2M2Directional hunts along a continuous diagonal sweep filtered to one
// checkerboard parity, then targets with the +/-2 pattern for the first few
// ships and strict linear logic (fill gaps, then extend the ends) once a
// cluster forms a line.
type P2M2Directional struct {
	boardSize int
	sizes     []int
	rng       *rand.Rand

	fired      firedSet
	clusters   *clusterTracker
	huntOrder  []board.Coord
	huntNext   int
	lastShot   *board.Coord
	shipsFound int
}

// NewP2M2Directional returns a seeded instance aware of the fleet's ship
// sizes.
func NewP2M2Directional(boardSize int, cfg board.Config, seed uint64) *P2M2Directional {
	a := &P2M2Directional{
		boardSize: boardSize,
		sizes:     cfg.Sizes(),
		rng:       newRand(seed),
		clusters:  newClusterTracker(nil),
	}
	a.Reset()
	return a
}

func (a *P2M2Directional) Name() string { return "P2M2-ST (Directional)" }

// Reset rebuilds the diagonal hunt path from a random edge cell, keeping
// only cells sharing that cell's parity.
func (a *P2M2Directional) Reset() {
	a.fired = make(firedSet)
	a.clusters.reset(a.sizes)
	a.lastShot = nil
	a.shipsFound = 0
	a.huntNext = 0

	path := diagonalSnake(a.boardSize)
	start := a.randomEdgeCell()
	for i, cell := range path {
		if cell == start {
			rotated := make([]board.Coord, 0, len(path))
			rotated = append(rotated, path[i:]...)
			rotated = append(rotated, path[:i]...)
			path = rotated
			break
		}
	}
	parity := (start.R + start.C) % 2
	a.huntOrder = a.huntOrder[:0]
	for _, cell := range path {
		if (cell.R+cell.C)%2 == parity {
			a.huntOrder = append(a.huntOrder, cell)
		}
	}
}

func (a *P2M2Directional) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	if a.lastShot != nil && view[a.lastShot.R][a.lastShot.C] == board.CellMiss {
		a.clusters.sweepSunk(a.candidatesFor, a.unfiredOnBoard)
	}
	// The first hit after all clusters resolved means a new ship was found.
	if len(a.clusters.groups) == 0 && a.hasNewHit(hits) {
		a.shipsFound++
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

func (a *P2M2Directional) candidatesFor(g *cluster) []board.Coord {
	if g.size() == 1 {
		origin := g.cells[0]
		adj := adjacentPattern(origin)
		if a.shipsFound <= patternShipCap {
			pattern := p2m2Pattern(origin)
			return append(pattern[:], adj[:]...)
		}
		return adj[:]
	}

	nRows, nCols, _, _, _, _ := g.rowsCols()
	switch {
	case nRows == 1, nCols == 1:
		return gapFillCandidates(g)
	default:
		// Touching-ship clump: probe around every hit.
		var out []board.Coord
		if a.shipsFound <= patternShipCap {
			for _, hit := range g.cells {
				p := p2m2Pattern(hit)
				out = append(out, p[:]...)
			}
		}
		for _, hit := range g.cells {
			adj := adjacentPattern(hit)
			out = append(out, adj[:]...)
		}
		return out
	}
}

func (a *P2M2Directional) hasNewHit(hits []board.Coord) bool {
	for _, hit := range hits {
		if !a.clusters.knownHit(hit) {
			return true
		}
	}
	return false
}

func (a *P2M2Directional) unfiredOnBoard(c board.Coord) bool {
	return inBounds(c, a.boardSize) && !a.fired.has(c)
}

func (a *P2M2Directional) take(shot board.Coord) board.Coord {
	a.fired.add(shot)
	a.lastShot = &shot
	return shot
}

func (a *P2M2Directional) randomEdgeCell() board.Coord {
	var edge []board.Coord
	for r := 0; r < a.boardSize; r++ {
		for c := 0; c < a.boardSize; c++ {
			if r == 0 || r == a.boardSize-1 || c == 0 || c == a.boardSize-1 {
				edge = append(edge, board.Coord{R: r, C: c})
			}
		}
	}
	return edge[a.rng.IntN(len(edge))]
}
