package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mdelaney-dev/broadside/internal/board"
	"github.com/mdelaney-dev/broadside/internal/sim"
	"github.com/mdelaney-dev/broadside/internal/stats"
	"github.com/mdelaney-dev/broadside/internal/store"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

// handleSimulate runs one batch and persists the result
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateSimulationRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	seed := resolveSeed(req.Seed)
	placer, err := buildPlacer(req.Placement, req.BoardSize)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	s.logger.Printf(
		"simulation_request algorithm=%s num_games=%d board_size=%d placement=%s seed=%d",
		req.Algorithm, req.NumGames, req.BoardSize, req.Placement.Mode, seed,
	)

	result, err := s.runner.Run(r.Context(), sim.BatchRequest{
		Algorithm: req.Algorithm,
		NumGames:  req.NumGames,
		BoardSize: req.BoardSize,
		Seed:      seed,
		Placement: placer,
	})
	if err != nil {
		s.handleRunError(w, r, req.Algorithm, err)
		return
	}

	summary := stats.Analyze(result.ShotsPerGame)
	response := SimulationResponse{
		Algorithm:     req.Algorithm,
		Seed:          seed,
		Summary:       summary,
		Histogram:     stats.NewHistogram(result.ShotsPerGame, stats.DefaultBins),
		ShotsPerGame:  result.ShotsPerGame,
		HeatMap:       result.HeatMap,
		Failures:      result.Failures,
		EngineVersion: EngineVersion,
		Echo:          req,
	}

	if s.db != nil {
		run, err := buildRunRecord(req, seed, result, summary)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, ErrTypeStorage, "Failed to encode run", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		if err := s.db.SaveRun(run); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, ErrTypeStorage, "Failed to persist run", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		response.RunID = run.ID
	}

	s.logger.Printf(
		"simulation_completed algorithm=%s games=%d failures=%d mean_shots=%.2f run_id=%s",
		req.Algorithm, result.Completed(), len(result.Failures), summary.Mean, response.RunID,
	)

	s.writeJSON(w, http.StatusOK, response)
}

// handleCompare runs several algorithms against identical boards
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateCompareRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	seed := resolveSeed(req.Seed)
	placer, err := buildPlacer(req.Placement, req.BoardSize)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	s.logger.Printf(
		"compare_request algorithms=%v num_games=%d board_size=%d seed=%d",
		req.Algorithms, req.NumGames, req.BoardSize, seed,
	)

	results, err := s.runner.Compare(r.Context(), sim.BatchRequest{
		NumGames:  req.NumGames,
		BoardSize: req.BoardSize,
		Seed:      seed,
		Placement: placer,
	}, req.Algorithms)
	if err != nil {
		s.handleRunError(w, r, "", err)
		return
	}

	response := CompareResponse{
		Results:       make([]AlgorithmResult, len(results)),
		Seed:          seed,
		EngineVersion: EngineVersion,
		Echo:          req,
	}
	groups := make([][]int, len(results))
	for i, result := range results {
		response.Results[i] = AlgorithmResult{
			Algorithm: result.Algorithm,
			Summary:   stats.Analyze(result.ShotsPerGame),
			Failures:  result.Failures,
		}
		groups[i] = result.ShotsPerGame
	}
	response.ANOVA = stats.OneWayANOVA(groups...)

	s.logger.Printf(
		"compare_completed algorithms=%d f_statistic=%.4f p_value=%.6f significant=%t",
		len(results), response.ANOVA.F, response.ANOVA.P, response.ANOVA.Significant,
	)

	s.writeJSON(w, http.StatusOK, response)
}

// handleListAlgorithms lists every registered algorithm
func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, AlgorithmsResponse{
		Algorithms:    s.registry.List(),
		EngineVersion: EngineVersion,
	})
}

// handleListRuns lists persisted runs with pagination
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeStorage, "Persistence is disabled", nil)
		return
	}

	query := store.RunsQuery{
		Algorithm: r.URL.Query().Get("algorithm"),
		Page:      parseIntParam(r, "page", 1),
		PerPage:   parseIntParam(r, "per_page", 50),
	}

	list, err := s.db.ListRuns(query)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeStorage, "Failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, list)
}

// handleGetRun retrieves one persisted run by id
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeStorage, "Persistence is disabled", nil)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.db.GetRun(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, r, http.StatusNotFound, ErrTypeRunNotFound, "Run not found", map[string]interface{}{
				"run_id": id,
			})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeStorage, "Failed to load run", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

// handleDeleteRun removes one persisted run by id
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeStorage, "Persistence is disabled", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.db.DeleteRun(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, r, http.StatusNotFound, ErrTypeRunNotFound, "Run not found", map[string]interface{}{
				"run_id": id,
			})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeStorage, "Failed to delete run", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleVersion reports build information
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}

// handleRunError maps runner errors onto HTTP statuses
func (s *Server) handleRunError(w http.ResponseWriter, r *http.Request, algorithm string, err error) {
	errType := ErrTypeSimulation
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, targeting.ErrUnknownAlgorithm):
		errType = ErrTypeAlgorithmNotFound
		status = http.StatusBadRequest
	case errors.Is(err, board.ErrPlacement):
		errType = ErrTypePlacement
		status = http.StatusBadRequest
	case errors.Is(err, sim.ErrNoGames):
		errType = ErrTypeValidation
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		errType = ErrTypeTimeout
		status = http.StatusRequestTimeout
	}

	context := map[string]interface{}{}
	if algorithm != "" {
		context["algorithm"] = algorithm
	}
	s.writeError(w, r, status, errType, err.Error(), context)
}

func resolveSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return uint64(time.Now().UnixNano())
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// buildRunRecord flattens a batch result into its persisted form
func buildRunRecord(req SimulationRequest, seed uint64, result *sim.BatchResult, summary stats.Summary) (*store.Run, error) {
	shotsJSON, err := json.Marshal(result.ShotsPerGame)
	if err != nil {
		return nil, err
	}
	heatJSON, err := json.Marshal(result.HeatMap)
	if err != nil {
		return nil, err
	}
	return &store.Run{
		Algorithm:     req.Algorithm,
		NumGames:      req.NumGames,
		BoardSize:     req.BoardSize,
		Placement:     req.Placement.Mode,
		Seed:          seed,
		Completed:     result.Completed(),
		Failures:      len(result.Failures),
		MeanShots:     summary.Mean,
		MedianShots:   summary.Median,
		StdDevShots:   summary.StdDev,
		MinShots:      summary.Min,
		MaxShots:      summary.Max,
		ShotsJSON:     string(shotsJSON),
		HeatMapJSON:   string(heatJSON),
		EngineVersion: EngineVersion,
	}, nil
}
