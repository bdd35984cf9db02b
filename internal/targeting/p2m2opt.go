package targeting

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// spaceCheckThreshold is the fraction of the board that must be fired before
// hunt cells are pruned by free-run length. Early on almost every cell can
// host a ship and the check is wasted work.
const spaceCheckThreshold = 0.6

// P2M2Optimized hunts on a randomized checkerboard and targets with the
// +/-2 pattern, gap-filling immediately when two hits land a knight's-move
// apart on the same line. Late in the game it prunes hunt cells whose free
// run is too short for the smallest surviving ship.
type P2M2Optimized struct {
	boardSize int
	sizes     []int
	rng       *rand.Rand

	fired      firedSet
	clusters   *clusterTracker
	huntOrder  []board.Coord
	huntNext   int
	shipsFound int
}

// NewP2M2Optimized returns a seeded instance aware of the fleet's ship
// sizes.
func NewP2M2Optimized(boardSize int, cfg board.Config, seed uint64) *P2M2Optimized {
	sizes := cfg.Sizes()
	if len(sizes) == 0 {
		// Classic fleet assumed when no configuration is supplied.
		sizes = []int{2, 3, 3, 4, 5}
	}
	a := &P2M2Optimized{
		boardSize: boardSize,
		sizes:     sizes,
		rng:       newRand(seed),
		clusters:  newClusterTracker(nil),
	}
	a.Reset()
	return a
}

func (a *P2M2Optimized) Name() string { return "P2M2 Optimized" }

// Reset reshuffles the single-parity hunt order and clears targeting state.
func (a *P2M2Optimized) Reset() {
	a.fired = make(firedSet)
	a.clusters.reset(a.sizes)
	a.shipsFound = 0
	a.huntNext = 0

	a.huntOrder = a.huntOrder[:0]
	for r := 0; r < a.boardSize; r++ {
		for c := 0; c < a.boardSize; c++ {
			if (r+c)%2 == 0 {
				a.huntOrder = append(a.huntOrder, board.Coord{R: r, C: c})
			}
		}
	}
	shuffleCoords(a.huntOrder, a.rng)
}

func (a *P2M2Optimized) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	a.updateClusters(hits)

	for _, g := range a.clusters.bySize() {
		for _, shot := range a.candidatesFor(g) {
			if a.unfiredOnBoard(shot) {
				a.fired.add(shot)
				return shot, nil
			}
		}
	}

	total := a.boardSize * a.boardSize
	useSpaceCheck := float64(len(a.fired))/float64(total) > spaceCheckThreshold

	for a.huntNext < len(a.huntOrder) {
		shot := a.huntOrder[a.huntNext]
		a.huntNext++
		if !a.unfiredOnBoard(shot) {
			continue
		}
		if !useSpaceCheck || a.fitsAnyShip(shot) {
			a.fired.add(shot)
			return shot, nil
		}
	}

	shot, err := randomUnfired(a.boardSize, a.fired, a.rng)
	if err != nil {
		return board.Coord{}, err
	}
	a.fired.add(shot)
	return shot, nil
}

// updateClusters absorbs new hits and immediately sweeps for sunk clusters;
// unlike the miss-triggered variants this runs every turn.
func (a *P2M2Optimized) updateClusters(hits []board.Coord) {
	if len(a.clusters.groups) == 0 && a.hasNewHit(hits) {
		a.shipsFound++
	}
	if len(a.clusters.absorb(hits)) == 0 {
		return
	}
	a.clusters.sweepSunk(a.candidatesFor, a.unfiredOnBoard)
}

func (a *P2M2Optimized) candidatesFor(g *cluster) []board.Coord {
	if g.size() == 1 {
		origin := g.cells[0]
		pattern := p2m2Pattern(origin)
		adj := adjacentPattern(origin)
		return append(pattern[:], adj[:]...)
	}

	if a.hasAlternatingPair(g) {
		return gapFillCandidates(g)
	}

	nRows, nCols, _, _, _, _ := g.rowsCols()
	if nRows == 1 || nCols == 1 {
		return gapFillCandidates(g)
	}

	var out []board.Coord
	for _, hit := range g.cells {
		adj := adjacentPattern(hit)
		out = append(out, adj[:]...)
	}
	return out
}

// hasAlternatingPair reports whether any two hits in the cluster sit exactly
// two cells apart on the same row or column, the signature of a ship found
// by two pattern shots with an untried cell between them.
func (a *P2M2Optimized) hasAlternatingPair(g *cluster) bool {
	for i := 0; i < len(g.cells); i++ {
		for j := i + 1; j < len(g.cells); j++ {
			p, q := g.cells[i], g.cells[j]
			if (abs(p.R-q.R) == 2 && p.C == q.C) || (abs(p.C-q.C) == 2 && p.R == q.R) {
				return true
			}
		}
	}
	return false
}

// fitsAnyShip reports whether the smallest remaining ship could still occupy
// (r, c) horizontally or vertically given the cells already fired.
func (a *P2M2Optimized) fitsAnyShip(cell board.Coord) bool {
	minSize := a.clusters.minRemaining()
	if minSize == 0 {
		return true
	}

	run := 1
	for i := 1; i < minSize && a.unfiredOnBoard(board.Coord{R: cell.R, C: cell.C - i}); i++ {
		run++
	}
	for i := 1; i < minSize && a.unfiredOnBoard(board.Coord{R: cell.R, C: cell.C + i}); i++ {
		run++
	}
	if run >= minSize {
		return true
	}

	run = 1
	for i := 1; i < minSize && a.unfiredOnBoard(board.Coord{R: cell.R - i, C: cell.C}); i++ {
		run++
	}
	for i := 1; i < minSize && a.unfiredOnBoard(board.Coord{R: cell.R + i, C: cell.C}); i++ {
		run++
	}
	return run >= minSize
}

func (a *P2M2Optimized) hasNewHit(hits []board.Coord) bool {
	for _, hit := range hits {
		if !a.clusters.knownHit(hit) {
			return true
		}
	}
	return false
}

func (a *P2M2Optimized) unfiredOnBoard(c board.Coord) bool {
	return inBounds(c, a.boardSize) && !a.fired.has(c)
}

// gapFillCandidates fills the interior of a collinear cluster first, then
// extends past both ends.
func gapFillCandidates(g *cluster) []board.Coord {
	nRows, nCols, minR, maxR, minC, maxC := g.rowsCols()
	var out []board.Coord
	switch {
	case nRows == 1:
		for c := minC + 1; c < maxC; c++ {
			if !g.has(board.Coord{R: minR, C: c}) {
				out = append(out, board.Coord{R: minR, C: c})
			}
		}
		out = append(out, board.Coord{R: minR, C: minC - 1}, board.Coord{R: minR, C: maxC + 1})
	case nCols == 1:
		for r := minR + 1; r < maxR; r++ {
			if !g.has(board.Coord{R: r, C: minC}) {
				out = append(out, board.Coord{R: r, C: minC})
			}
		}
		out = append(out, board.Coord{R: minR - 1, C: minC}, board.Coord{R: maxR + 1, C: minC})
	}
	return out
}
