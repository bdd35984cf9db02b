package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			algorithm TEXT NOT NULL,
			num_games INTEGER NOT NULL,
			board_size INTEGER NOT NULL,
			placement TEXT NOT NULL,
			seed INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			mean_shots REAL NOT NULL DEFAULT 0,
			median_shots REAL NOT NULL DEFAULT 0,
			std_dev_shots REAL NOT NULL DEFAULT 0,
			min_shots INTEGER NOT NULL DEFAULT 0,
			max_shots INTEGER NOT NULL DEFAULT 0,
			shots_json TEXT NOT NULL DEFAULT '[]',
			heat_map_json TEXT NOT NULL DEFAULT '[]',
			engine_version TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_algo_created ON runs(algorithm, created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveRun saves a simulation run to the database
func (s *SQLiteDB) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `INSERT INTO runs (
		id, algorithm, num_games, board_size, placement, seed,
		completed, failures, mean_shots, median_shots, std_dev_shots,
		min_shots, max_shots, shots_json, heat_map_json, engine_version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		run.ID, run.Algorithm, run.NumGames, run.BoardSize, run.Placement,
		int64(run.Seed), run.Completed, run.Failures, run.MeanShots,
		run.MedianShots, run.StdDevShots, run.MinShots, run.MaxShots,
		run.ShotsJSON, run.HeatMapJSON, run.EngineVersion,
	)

	return err
}

// GetRun retrieves a run by ID
func (s *SQLiteDB) GetRun(id string) (*Run, error) {
	query := `SELECT
		id, algorithm, num_games, board_size, placement, seed,
		completed, failures, mean_shots, median_shots, std_dev_shots,
		min_shots, max_shots, shots_json, heat_map_json, engine_version, created_at
		FROM runs WHERE id = ?`

	var run Run
	var seed int64

	err := s.db.QueryRow(query, id).Scan(
		&run.ID, &run.Algorithm, &run.NumGames, &run.BoardSize, &run.Placement,
		&seed, &run.Completed, &run.Failures, &run.MeanShots,
		&run.MedianShots, &run.StdDevShots, &run.MinShots, &run.MaxShots,
		&run.ShotsJSON, &run.HeatMapJSON, &run.EngineVersion, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)

	return &run, nil
}

// ListRuns retrieves runs with pagination and filtering
func (s *SQLiteDB) ListRuns(query RunsQuery) (*RunsList, error) {
	whereClause := ""
	args := []interface{}{}

	if query.Algorithm != "" {
		whereClause = "WHERE algorithm = ?"
		args = append(args, query.Algorithm)
	}

	countQuery := "SELECT COUNT(*) FROM runs " + whereClause
	var totalCount int
	err := s.db.QueryRow(countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50 // Default page size
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	mainQuery := `SELECT
		id, algorithm, num_games, board_size, placement, seed,
		completed, failures, mean_shots, median_shots, std_dev_shots,
		min_shots, max_shots, shots_json, heat_map_json, engine_version, created_at
		FROM runs ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	args = append(args, query.PerPage, offset)

	rows, err := s.db.Query(mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var seed int64

		err := rows.Scan(
			&run.ID, &run.Algorithm, &run.NumGames, &run.BoardSize, &run.Placement,
			&seed, &run.Completed, &run.Failures, &run.MeanShots,
			&run.MedianShots, &run.StdDevShots, &run.MinShots, &run.MaxShots,
			&run.ShotsJSON, &run.HeatMapJSON, &run.EngineVersion, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Seed = uint64(seed)

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return &RunsList{
		Runs:       runs,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// DeleteRun removes a run by ID
func (s *SQLiteDB) DeleteRun(id string) error {
	result, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
