package api

import (
	"github.com/mdelaney-dev/broadside/internal/sim"
	"github.com/mdelaney-dev/broadside/internal/stats"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidSeed   = "invalid_seed"
	ErrTypeInvalidParams = "invalid_params"

	// Simulation errors
	ErrTypeAlgorithmNotFound = "algorithm_not_found"
	ErrTypePlacement         = "placement_failed"
	ErrTypeSimulation        = "simulation_error"

	// Resource errors
	ErrTypeRunNotFound = "run_not_found"

	// System errors
	ErrTypeTimeout  = "timeout"
	ErrTypeInternal = "internal_error"
	ErrTypeStorage  = "storage_error"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategorySimulation ErrorCategory = "simulation"
	CategoryResource   ErrorCategory = "resource"
	CategoryTimeout    ErrorCategory = "timeout"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidSeed, ErrTypeInvalidParams:
		return CategoryValidation
	case ErrTypeAlgorithmNotFound, ErrTypePlacement, ErrTypeSimulation:
		return CategorySimulation
	case ErrTypeRunNotFound:
		return CategoryResource
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// PlacementSpec selects how boards are generated for a batch.
type PlacementSpec struct {
	Mode  string       `json:"mode,omitempty"`  // defaults to random_each_round
	Fleet string       `json:"fleet,omitempty"` // "classic" (default) or "modern"
	Grid  [][]string   `json:"grid,omitempty"`  // for fixed_for_all_rounds
	Grids [][][]string `json:"grids,omitempty"` // for random_from_set
}

// SimulationRequest describes one batch run
type SimulationRequest struct {
	Algorithm string        `json:"algorithm"`
	NumGames  int           `json:"num_games"`
	BoardSize int           `json:"board_size,omitempty"` // defaults to 10
	Seed      *uint64       `json:"seed,omitempty"`       // random when omitted
	Placement PlacementSpec `json:"placement,omitempty"`
}

// SimulationResponse is the complete batch result
type SimulationResponse struct {
	RunID         string            `json:"run_id,omitempty"`
	Algorithm     string            `json:"algorithm"`
	Seed          uint64            `json:"seed"`
	Summary       stats.Summary     `json:"summary"`
	Histogram     stats.Histogram   `json:"histogram"`
	ShotsPerGame  []int             `json:"shots_per_game"`
	HeatMap       [][]int           `json:"heat_map"`
	Failures      []sim.GameFailure `json:"failures,omitempty"`
	EngineVersion string            `json:"engine_version"`
	Echo          SimulationRequest `json:"echo"`
}

// CompareRequest runs several algorithms against identical board sequences
type CompareRequest struct {
	Algorithms []string      `json:"algorithms"`
	NumGames   int           `json:"num_games"`
	BoardSize  int           `json:"board_size,omitempty"`
	Seed       *uint64       `json:"seed,omitempty"`
	Placement  PlacementSpec `json:"placement,omitempty"`
}

// AlgorithmResult is one algorithm's slice of a comparison
type AlgorithmResult struct {
	Algorithm string            `json:"algorithm"`
	Summary   stats.Summary     `json:"summary"`
	Failures  []sim.GameFailure `json:"failures,omitempty"`
}

// CompareResponse holds per-algorithm summaries plus the variance test
type CompareResponse struct {
	Results       []AlgorithmResult `json:"results"`
	ANOVA         stats.ANOVA       `json:"anova"`
	Seed          uint64            `json:"seed"`
	EngineVersion string            `json:"engine_version"`
	Echo          CompareRequest    `json:"echo"`
}

// AlgorithmsResponse lists the registered algorithms
type AlgorithmsResponse struct {
	Algorithms    []targeting.Info `json:"algorithms"`
	EngineVersion string           `json:"engine_version"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}
