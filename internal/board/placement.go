package board

import (
	"fmt"
	"math/rand/v2"
)

// PlacementMode selects how each game's board is produced.
type PlacementMode string

const (
	// PlacementRandom generates a fresh random layout per game.
	PlacementRandom PlacementMode = "random_each_round"
	// PlacementFixed reuses one caller-supplied layout for every game.
	PlacementFixed PlacementMode = "fixed_for_all_rounds"
	// PlacementRandomFromSet picks uniformly from a caller-supplied list of
	// layouts per game.
	PlacementRandomFromSet PlacementMode = "random_from_set"
)

// Placer is a factory producing one fresh, independent Board per call
// according to the configured mode. Even in fixed mode every board starts
// with an empty tracking grid.
type Placer struct {
	Mode   PlacementMode
	Size   int
	Config Config

	// FixedGrid is required for PlacementFixed.
	FixedGrid [][]string
	// GridSet is required for PlacementRandomFromSet.
	GridSet [][][]string
}

// Validate checks that the placer has what its mode requires.
func (p *Placer) Validate() error {
	switch p.Mode {
	case PlacementRandom:
		if len(p.Config) == 0 {
			return fmt.Errorf("random placement requires a ship configuration")
		}
	case PlacementFixed:
		if len(p.FixedGrid) == 0 {
			return fmt.Errorf("fixed placement requires a placement grid")
		}
	case PlacementRandomFromSet:
		if len(p.GridSet) == 0 {
			return fmt.Errorf("random-from-set placement requires at least one grid")
		}
	default:
		return fmt.Errorf("unknown placement mode %q", p.Mode)
	}
	return nil
}

// NewBoard produces the next game's board.
func (p *Placer) NewBoard(rng *rand.Rand) (*Board, error) {
	switch p.Mode {
	case PlacementRandom:
		return Place(p.Config, p.Size, rng)
	case PlacementFixed:
		return FromGrid(p.FixedGrid)
	case PlacementRandomFromSet:
		return FromGrid(p.GridSet[rng.IntN(len(p.GridSet))])
	default:
		return nil, fmt.Errorf("unknown placement mode %q", p.Mode)
	}
}
