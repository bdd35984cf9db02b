package board

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// CellState is the shooter's knowledge of a single cell.
type CellState uint8

const (
	CellUnknown CellState = iota
	CellHit
	CellMiss
)

func (s CellState) String() string {
	switch s {
	case CellHit:
		return "HIT"
	case CellMiss:
		return "MISS"
	default:
		return "UNKNOWN"
	}
}

// View is the shooter-facing grid: UNKNOWN / HIT / MISS per cell. It never
// exposes ship identities.
type View [][]CellState

// NewView returns an all-UNKNOWN view of the given size.
func NewView(size int) View {
	v := make(View, size)
	for r := range v {
		v[r] = make([]CellState, size)
	}
	return v
}

// ShotResult is the outcome of a single shot.
type ShotResult uint8

const (
	Miss ShotResult = iota
	Hit
)

func (r ShotResult) String() string {
	if r == Hit {
		return "HIT"
	}
	return "MISS"
}

// ErrPlacement is returned when a ship cannot be placed within the attempt
// budget. It is a fatal setup error: the configuration is geometrically
// impossible (or nearly so) for the board size.
var ErrPlacement = errors.New("ship placement failed")

// maxPlacementAttempts bounds the random placement loop per ship.
const maxPlacementAttempts = 1000

// Board owns the hidden ship layout and the public shot-outcome grid for one
// game. The solution grid is written once at placement and never mutated;
// only the tracking grid changes as shots resolve.
type Board struct {
	size          int
	solution      [][]string // ship name, or "" for water
	tracking      [][]CellState
	hitsMade      int
	totalSegments int
}

// Place builds a board with every ship in cfg placed at a random position
// and orientation. Each ship gets up to maxPlacementAttempts tries; running
// out is an ErrPlacement.
func Place(cfg Config, size int, rng *rand.Rand) (*Board, error) {
	b := &Board{
		size:          size,
		solution:      emptySolution(size),
		tracking:      make([][]CellState, size),
		totalSegments: cfg.TotalSegments(),
	}
	for r := range b.tracking {
		b.tracking[r] = make([]CellState, size)
	}

	for _, ship := range cfg {
		if err := b.placeShip(ship, rng); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// FromGrid builds a board from a caller-supplied solution grid. The segment
// total is recomputed from the grid's non-empty cells, not from any ship
// configuration, so the win condition matches what was actually supplied.
func FromGrid(grid [][]string) (*Board, error) {
	size := len(grid)
	if size == 0 {
		return nil, fmt.Errorf("fixed placement grid is empty")
	}
	b := &Board{
		size:     size,
		solution: make([][]string, size),
		tracking: make([][]CellState, size),
	}
	for r, cells := range grid {
		if len(cells) != size {
			return nil, fmt.Errorf("fixed placement grid is not square: row %d has %d cells, want %d", r, len(cells), size)
		}
		b.solution[r] = make([]string, size)
		copy(b.solution[r], cells)
		b.tracking[r] = make([]CellState, size)
		for _, name := range cells {
			if name != "" {
				b.totalSegments++
			}
		}
	}
	return b, nil
}

// Size returns the board dimension.
func (b *Board) Size() int { return b.size }

// TotalSegments returns the number of ship cells on the board.
func (b *Board) TotalSegments() int { return b.totalSegments }

// HitsMade returns the number of distinct ship cells hit so far.
func (b *Board) HitsMade() int { return b.hitsMade }

// TakeShot resolves a shot at (r, c). Firing twice at the same ship cell is
// idempotent: the hit counter increments at most once per cell.
func (b *Board) TakeShot(r, c int) ShotResult {
	if b.solution[r][c] != "" {
		if b.tracking[r][c] != CellHit {
			b.tracking[r][c] = CellHit
			b.hitsMade++
		}
		return Hit
	}
	b.tracking[r][c] = CellMiss
	return Miss
}

// View returns the shooter-facing tracking grid. Callers treat it as
// read-only; it reflects every shot resolved so far.
func (b *Board) View() View { return b.tracking }

// IsOver reports whether every ship segment has been hit.
func (b *Board) IsOver() bool {
	return b.hitsMade >= b.totalSegments
}

// ShipAt returns the name of the ship occupying (r, c), or "" for water.
func (b *Board) ShipAt(r, c int) string { return b.solution[r][c] }

// Clone returns an independent copy of the board. Comparison runs clone one
// generated layout per algorithm so tracking state never leaks between them.
func (b *Board) Clone() *Board {
	clone := &Board{
		size:          b.size,
		solution:      make([][]string, b.size),
		tracking:      make([][]CellState, b.size),
		hitsMade:      b.hitsMade,
		totalSegments: b.totalSegments,
	}
	for r := 0; r < b.size; r++ {
		clone.solution[r] = make([]string, b.size)
		copy(clone.solution[r], b.solution[r])
		clone.tracking[r] = make([]CellState, b.size)
		copy(clone.tracking[r], b.tracking[r])
	}
	return clone
}

func (b *Board) placeShip(ship Ship, rng *rand.Rand) error {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		shape := randomOrientation(ship.Shape, rng)

		minR, maxR, minC, maxC := bounds(shape)
		if maxR-minR >= b.size || maxC-minC >= b.size {
			continue // shape doesn't fit in this orientation
		}
		anchorR := -minR + rng.IntN(b.size-(maxR-minR))
		anchorC := -minC + rng.IntN(b.size-(maxC-minC))

		cells := make([]Coord, len(shape))
		valid := true
		for i, off := range shape {
			cell := Coord{anchorR + off.R, anchorC + off.C}
			if b.solution[cell.R][cell.C] != "" {
				valid = false
				break
			}
			cells[i] = cell
		}
		if !valid {
			continue
		}

		for _, cell := range cells {
			b.solution[cell.R][cell.C] = ship.Name
		}
		return nil
	}
	return fmt.Errorf("%w: no room for %q on a %dx%d board after %d attempts",
		ErrPlacement, ship.Name, b.size, b.size, maxPlacementAttempts)
}

// randomOrientation applies a random combination of vertical flip, horizontal
// flip, and quarter rotations to the shape offsets.
func randomOrientation(shape []Coord, rng *rand.Rand) []Coord {
	out := make([]Coord, len(shape))
	copy(out, shape)

	if rng.IntN(2) == 0 {
		for i := range out {
			out[i].R = -out[i].R
		}
	}
	if rng.IntN(2) == 0 {
		for i := range out {
			out[i].C = -out[i].C
		}
	}
	for n := rng.IntN(4); n > 0; n-- {
		for i := range out {
			out[i] = Coord{-out[i].C, out[i].R}
		}
	}
	return out
}

func bounds(shape []Coord) (minR, maxR, minC, maxC int) {
	minR, maxR = shape[0].R, shape[0].R
	minC, maxC = shape[0].C, shape[0].C
	for _, cell := range shape[1:] {
		if cell.R < minR {
			minR = cell.R
		}
		if cell.R > maxR {
			maxR = cell.R
		}
		if cell.C < minC {
			minC = cell.C
		}
		if cell.C > maxC {
			maxC = cell.C
		}
	}
	return minR, maxR, minC, maxC
}

func emptySolution(size int) [][]string {
	grid := make([][]string, size)
	for r := range grid {
		grid[r] = make([]string, size)
	}
	return grid
}
