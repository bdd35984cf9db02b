package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mdelaney-dev/broadside/internal/api"
	"github.com/mdelaney-dev/broadside/internal/generic"
	"github.com/mdelaney-dev/broadside/internal/store"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

func main() {
	logger := log.New(os.Stdout, "[BROADSIDE] ", log.LstdFlags)

	// A missing .env is fine; environment variables still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("env_load_warning error=%v", err)
	}

	addr := flag.String("addr", envOr("BROADSIDE_ADDR", ":8080"), "listen address")
	dbPath := flag.String("db", envOr("BROADSIDE_DB", "broadside.db"), "sqlite database path, empty disables persistence")
	algoDir := flag.String("algo-dir", envOr("BROADSIDE_ALGO_DIR", ""), "directory of JSON algorithm documents to load")
	flag.Parse()

	registry := targeting.NewRegistry()
	if err := generic.RegisterBuiltins(registry); err != nil {
		logger.Fatalf("builtin_documents_failed error=%v", err)
	}
	if *algoDir != "" {
		if err := generic.RegisterDir(registry, *algoDir); err != nil {
			logger.Fatalf("document_directory_failed dir=%s error=%v", *algoDir, err)
		}
	}
	logger.Printf("algorithms_registered count=%d", len(registry.List()))

	var db store.DB
	if *dbPath != "" {
		sqliteDB, err := store.NewSQLiteDB(*dbPath)
		if err != nil {
			logger.Fatalf("database_open_failed path=%s error=%v", *dbPath, err)
		}
		if err := sqliteDB.Migrate(); err != nil {
			logger.Fatalf("database_migrate_failed path=%s error=%v", *dbPath, err)
		}
		db = sqliteDB
		defer db.Close()
		logger.Printf("database_ready path=%s", *dbPath)
	} else {
		logger.Printf("persistence_disabled")
	}

	server := api.NewServer(db, registry)
	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("listening addr=%s engine_version=%s", *addr, api.EngineVersion)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server_failed error=%v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutdown_started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown_error error=%v", err)
	}
	logger.Printf("shutdown_complete")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
