package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdelaney-dev/broadside/internal/sim"
	"github.com/mdelaney-dev/broadside/internal/store"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	registry     *targeting.Registry
	runner       *sim.Runner
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB, registry *targeting.Registry) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	errorHandler := NewErrorHandler(logger)

	server := &Server{
		db:           db,
		registry:     registry,
		runner:       sim.NewRunner(registry),
		errorHandler: errorHandler,
		logger:       logger,
		startTime:    time.Now(),
	}

	logger.Printf(
		"server_startup algorithms_available=%d database_enabled=%t engine_version=%s",
		len(registry.List()), db != nil, EngineVersion,
	)

	return server
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleListAlgorithms)
		r.Post("/simulations", s.handleSimulate)
		r.Post("/simulations/compare", s.handleCompare)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
		r.Get("/version", s.handleVersion)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]interface{}) {
	builder := NewError(errType, message).
		WithRequestID(middleware.GetReqID(r.Context()))
	for key, value := range context {
		builder.WithContext(key, value)
	}
	s.errorHandler.HandleError(w, r, builder.Build(), status)
}
