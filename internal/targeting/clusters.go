package targeting

import (
	"sort"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// cluster is a set of unresolved hit coordinates believed to belong to the
// same ship (or a clump of touching ships). Cells are kept sorted so
// candidate generation is deterministic under a fixed seed.
type cluster struct {
	cells []board.Coord
}

func (g *cluster) size() int { return len(g.cells) }

func (g *cluster) has(c board.Coord) bool {
	for _, cell := range g.cells {
		if cell == c {
			return true
		}
	}
	return false
}

func (g *cluster) add(c board.Coord) {
	i := sort.Search(len(g.cells), func(i int) bool {
		return g.cells[i].R > c.R || (g.cells[i].R == c.R && g.cells[i].C >= c.C)
	})
	g.cells = append(g.cells, board.Coord{})
	copy(g.cells[i+1:], g.cells[i:])
	g.cells[i] = c
}

// touches reports whether c is Manhattan-adjacent to any cell in the cluster.
// Adjacency is exact distance 1: diagonal hits stay in separate clusters.
func (g *cluster) touches(c board.Coord) bool {
	for _, cell := range g.cells {
		if abs(cell.R-c.R)+abs(cell.C-c.C) == 1 {
			return true
		}
	}
	return false
}

// rowsCols returns the distinct row and column counts plus the bounding box.
func (g *cluster) rowsCols() (nRows, nCols, minR, maxR, minC, maxC int) {
	minR, maxR = g.cells[0].R, g.cells[0].R
	minC, maxC = g.cells[0].C, g.cells[0].C
	rows := map[int]struct{}{}
	cols := map[int]struct{}{}
	for _, c := range g.cells {
		rows[c.R] = struct{}{}
		cols[c.C] = struct{}{}
		if c.R < minR {
			minR = c.R
		}
		if c.R > maxR {
			maxR = c.R
		}
		if c.C < minC {
			minC = c.C
		}
		if c.C > maxC {
			maxC = c.C
		}
	}
	return len(rows), len(cols), minR, maxR, minC, maxC
}

// clusterTracker partitions unresolved hits into adjacency clusters and
// retires clusters judged sunk against a multiset of remaining ship sizes.
type clusterTracker struct {
	groups    []*cluster
	remaining map[int]int // ship size -> outstanding count
}

func newClusterTracker(sizes []int) *clusterTracker {
	t := &clusterTracker{remaining: make(map[int]int)}
	for _, s := range sizes {
		t.remaining[s]++
	}
	return t
}

func (t *clusterTracker) reset(sizes []int) {
	t.groups = t.groups[:0]
	clear(t.remaining)
	for _, s := range sizes {
		t.remaining[s]++
	}
}

func (t *clusterTracker) knownHit(c board.Coord) bool {
	for _, g := range t.groups {
		if g.has(c) {
			return true
		}
	}
	return false
}

// absorb merges hits newly appeared in the history into the cluster set.
// A new hit joins every cluster it touches; touching clusters merge. Returns
// the coordinates that were actually new.
func (t *clusterTracker) absorb(hits []board.Coord) []board.Coord {
	var fresh []board.Coord
	for _, hit := range hits {
		if t.knownHit(hit) {
			continue
		}
		fresh = append(fresh, hit)

		merged := &cluster{}
		merged.add(hit)
		kept := t.groups[:0]
		for _, g := range t.groups {
			if g.touches(hit) {
				for _, cell := range g.cells {
					merged.add(cell)
				}
			} else {
				kept = append(kept, g)
			}
		}
		t.groups = append(kept, merged)
	}
	return fresh
}

// sweepSunk retires every boxed-in cluster whose size matches an outstanding
// ship size. A boxed-in cluster with no matching size is left active: it is
// probably two touching ships and retiring it would miscount the fleet.
func (t *clusterTracker) sweepSunk(candidates func(*cluster) []board.Coord, unfired func(board.Coord) bool) {
	kept := t.groups[:0]
	for _, g := range t.groups {
		boxedIn := true
		for _, c := range candidates(g) {
			if unfired(c) {
				boxedIn = false
				break
			}
		}
		if boxedIn && t.remaining[g.size()] > 0 {
			t.remaining[g.size()]--
			continue
		}
		kept = append(kept, g)
	}
	t.groups = kept
}

// bySize returns the active clusters ordered smallest first (stable).
func (t *clusterTracker) bySize() []*cluster {
	out := make([]*cluster, len(t.groups))
	copy(out, t.groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].size() < out[j].size()
	})
	return out
}

// minRemaining returns the smallest outstanding ship size, or 0 when the
// multiset is exhausted.
func (t *clusterTracker) minRemaining() int {
	min := 0
	for size, count := range t.remaining {
		if count > 0 && (min == 0 || size < min) {
			min = size
		}
	}
	return min
}

// remainingCount returns the number of outstanding ships.
func (t *clusterTracker) remainingCount() int {
	total := 0
	for _, count := range t.remaining {
		total += count
	}
	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
