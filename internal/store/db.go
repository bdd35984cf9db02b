package store

import (
	"time"
)

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error
	SaveRun(run *Run) error
	GetRun(id string) (*Run, error)
	ListRuns(query RunsQuery) (*RunsList, error)
	DeleteRun(id string) error
}

// RunsQuery represents query parameters for listing runs
type RunsQuery struct {
	Algorithm string `json:"algorithm,omitempty"`
	Page      int    `json:"page"`
	PerPage   int    `json:"perPage"`
}

// RunsList represents paginated runs response
type RunsList struct {
	Runs       []Run `json:"runs"`
	TotalCount int   `json:"totalCount"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

// Run represents one persisted simulation batch
type Run struct {
	ID            string    `json:"id" db:"id"`
	Algorithm     string    `json:"algorithm" db:"algorithm"`
	NumGames      int       `json:"num_games" db:"num_games"`
	BoardSize     int       `json:"board_size" db:"board_size"`
	Placement     string    `json:"placement" db:"placement"`
	Seed          uint64    `json:"seed" db:"seed"`
	Completed     int       `json:"completed" db:"completed"`
	Failures      int       `json:"failures" db:"failures"`
	MeanShots     float64   `json:"mean_shots" db:"mean_shots"`
	MedianShots   float64   `json:"median_shots" db:"median_shots"`
	StdDevShots   float64   `json:"std_dev_shots" db:"std_dev_shots"`
	MinShots      int       `json:"min_shots" db:"min_shots"`
	MaxShots      int       `json:"max_shots" db:"max_shots"`
	ShotsJSON     string    `json:"shots_json" db:"shots_json"`       // per-game shot counts
	HeatMapJSON   string    `json:"heat_map_json" db:"heat_map_json"` // size x size fire counts
	EngineVersion string    `json:"engine_version" db:"engine_version"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
