package store

import (
	"database/sql"
	"errors"
	"testing"
)

func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func sampleRun(id, algorithm string) *Run {
	return &Run{
		ID:            id,
		Algorithm:     algorithm,
		NumGames:      100,
		BoardSize:     10,
		Placement:     "random_each_round",
		Seed:          987654321,
		Completed:     100,
		Failures:      0,
		MeanShots:     62.4,
		MedianShots:   61,
		StdDevShots:   8.1,
		MinShots:      38,
		MaxShots:      93,
		ShotsJSON:     "[62,61,64]",
		HeatMapJSON:   "[[1,2],[3,4]]",
		EngineVersion: "1.0.0",
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	// A second migration against the same database must be a no-op.
	if err := db.Migrate(); err != nil {
		t.Fatalf("Repeated migration failed: %v", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := testDB(t)

	run := sampleRun("", "hunt_target")
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("SaveRun did not assign an id")
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to load run: %v", err)
	}

	if got.Algorithm != "hunt_target" {
		t.Errorf("Expected algorithm hunt_target, got %q", got.Algorithm)
	}
	if got.Seed != 987654321 {
		t.Errorf("Seed mangled in round trip: %d", got.Seed)
	}
	if got.MeanShots != 62.4 {
		t.Errorf("Expected mean 62.4, got %f", got.MeanShots)
	}
	if got.ShotsJSON != "[62,61,64]" {
		t.Errorf("Shots JSON mangled: %q", got.ShotsJSON)
	}
	if got.HeatMapJSON != "[[1,2],[3,4]]" {
		t.Errorf("Heat map JSON mangled: %q", got.HeatMapJSON)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestGetRunMissing(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetRun("no-such-run"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestLargeSeedRoundTrip(t *testing.T) {
	db := testDB(t)

	// Seeds above the int64 midpoint must survive the signed column.
	run := sampleRun("big-seed", "p2m2")
	run.Seed = ^uint64(0) - 5
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	got, err := db.GetRun("big-seed")
	if err != nil {
		t.Fatalf("Failed to load run: %v", err)
	}
	if got.Seed != ^uint64(0)-5 {
		t.Errorf("Large seed mangled: %d", got.Seed)
	}
}

func TestListRuns(t *testing.T) {
	db := testDB(t)

	for _, r := range []*Run{
		sampleRun("run1", "hunt_target"),
		sampleRun("run2", "random_search"),
		sampleRun("run3", "hunt_target"),
	} {
		if err := db.SaveRun(r); err != nil {
			t.Fatalf("Failed to save run %s: %v", r.ID, err)
		}
	}

	result, err := db.ListRuns(RunsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if result.TotalCount != 3 {
		t.Errorf("Expected 3 total runs, got %d", result.TotalCount)
	}
	if len(result.Runs) != 3 {
		t.Errorf("Expected 3 runs in result, got %d", len(result.Runs))
	}

	result, err = db.ListRuns(RunsQuery{Algorithm: "hunt_target", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list filtered runs: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("Expected 2 hunt_target runs, got %d", result.TotalCount)
	}

	result, err = db.ListRuns(RunsQuery{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list paginated runs: %v", err)
	}
	if len(result.Runs) != 2 {
		t.Errorf("Expected 2 runs per page, got %d", len(result.Runs))
	}
	if result.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", result.TotalPages)
	}
}

func TestDeleteRun(t *testing.T) {
	db := testDB(t)

	run := sampleRun("doomed", "random_search")
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	if err := db.DeleteRun("doomed"); err != nil {
		t.Fatalf("Failed to delete run: %v", err)
	}
	if _, err := db.GetRun("doomed"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Run still present after delete: %v", err)
	}

	if err := db.DeleteRun("doomed"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for double delete, got %v", err)
	}
}
