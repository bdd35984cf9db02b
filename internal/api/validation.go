package api

import (
	"fmt"

	"github.com/mdelaney-dev/broadside/internal/board"
)

const (
	defaultBoardSize = 10
	minBoardSize     = 5
	maxBoardSize     = 50
	maxGames         = 1_000_000
	maxCompareAlgos  = 10
)

// ValidateSimulationRequest checks batch parameters and applies defaults
func ValidateSimulationRequest(req *SimulationRequest) error {
	if req.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if req.NumGames < 1 {
		return fmt.Errorf("num_games must be at least 1")
	}
	if req.NumGames > maxGames {
		return fmt.Errorf("num_games must not exceed %d", maxGames)
	}
	if req.BoardSize == 0 {
		req.BoardSize = defaultBoardSize
	}
	if req.BoardSize < minBoardSize || req.BoardSize > maxBoardSize {
		return fmt.Errorf("board_size must be between %d and %d", minBoardSize, maxBoardSize)
	}
	return validatePlacement(&req.Placement, req.BoardSize)
}

// ValidateCompareRequest checks comparison parameters and applies defaults
func ValidateCompareRequest(req *CompareRequest) error {
	if len(req.Algorithms) < 2 {
		return fmt.Errorf("at least two algorithms are required")
	}
	if len(req.Algorithms) > maxCompareAlgos {
		return fmt.Errorf("at most %d algorithms can be compared", maxCompareAlgos)
	}
	seen := make(map[string]bool, len(req.Algorithms))
	for _, id := range req.Algorithms {
		if id == "" {
			return fmt.Errorf("algorithm ids must not be empty")
		}
		if seen[id] {
			return fmt.Errorf("algorithm %q listed twice", id)
		}
		seen[id] = true
	}
	if req.NumGames < 1 {
		return fmt.Errorf("num_games must be at least 1")
	}
	if req.NumGames > maxGames {
		return fmt.Errorf("num_games must not exceed %d", maxGames)
	}
	if req.BoardSize == 0 {
		req.BoardSize = defaultBoardSize
	}
	if req.BoardSize < minBoardSize || req.BoardSize > maxBoardSize {
		return fmt.Errorf("board_size must be between %d and %d", minBoardSize, maxBoardSize)
	}
	return validatePlacement(&req.Placement, req.BoardSize)
}

func validatePlacement(spec *PlacementSpec, boardSize int) error {
	if spec.Mode == "" {
		spec.Mode = string(board.PlacementRandom)
	}
	if spec.Fleet == "" {
		spec.Fleet = "classic"
	}
	if _, err := fleetConfig(spec.Fleet); err != nil {
		return err
	}

	switch board.PlacementMode(spec.Mode) {
	case board.PlacementRandom:
	case board.PlacementFixed:
		if err := validateGrid(spec.Grid, boardSize); err != nil {
			return fmt.Errorf("placement grid: %w", err)
		}
	case board.PlacementRandomFromSet:
		if len(spec.Grids) == 0 {
			return fmt.Errorf("placement mode %q requires at least one grid", spec.Mode)
		}
		for i, grid := range spec.Grids {
			if err := validateGrid(grid, boardSize); err != nil {
				return fmt.Errorf("placement grid %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown placement mode %q", spec.Mode)
	}
	return nil
}

func validateGrid(grid [][]string, boardSize int) error {
	if len(grid) != boardSize {
		return fmt.Errorf("expected %d rows, got %d", boardSize, len(grid))
	}
	segments := 0
	for r, row := range grid {
		if len(row) != boardSize {
			return fmt.Errorf("row %d: expected %d cells, got %d", r, boardSize, len(row))
		}
		for _, cell := range row {
			if cell != "" {
				segments++
			}
		}
	}
	if segments == 0 {
		return fmt.Errorf("grid contains no ship segments")
	}
	return nil
}

func fleetConfig(fleet string) (board.Config, error) {
	switch fleet {
	case "classic":
		return board.ClassicConfig(), nil
	case "modern":
		return board.ModernConfig(), nil
	default:
		return nil, fmt.Errorf("unknown fleet %q", fleet)
	}
}

// buildPlacer converts a validated PlacementSpec into a board placer
func buildPlacer(spec PlacementSpec, boardSize int) (*board.Placer, error) {
	cfg, err := fleetConfig(spec.Fleet)
	if err != nil {
		return nil, err
	}
	placer := &board.Placer{
		Mode:      board.PlacementMode(spec.Mode),
		Size:      boardSize,
		Config:    cfg,
		FixedGrid: spec.Grid,
		GridSet:   spec.Grids,
	}
	if err := placer.Validate(); err != nil {
		return nil, err
	}
	return placer, nil
}
