/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the XP tracker server.
	Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
 1. Load config (.env, environment), then command-line flags
 2. Build logger and program rules
 3. Initialize SQLite store
 4. Create engine, resolver, metrics and API handler
 5. Start snapshot scheduler
 6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override environment):

	-port    HTTP server port (env PORT, default: 8080)
	-db      SQLite database path (env DB_PATH, default: xp-tracker.db)
	         Use ":memory:" for in-memory database

ENVIRONMENT:

	LOG_LEVEL, PROGRAM_PRESET, PROGRAM_FILE, SNAPSHOTS_ENABLED,
	SNAPSHOT_INTERVAL_MINUTES, CORS_ORIGINS, READ_TIMEOUT, WRITE_TIMEOUT.
	See config/config.go.

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop the snapshot scheduler
	2. Stop accepting new connections
	3. Wait for active requests to complete (30s timeout)
	4. Close database connection

EXAMPLES:

	# Run with in-memory database
	./server -db=":memory:"

	# Run with the Ultimate tier enabled
	PROGRAM_PRESET=flying-blue-ultimate ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/warp/xp-tracker/api"
	"github.com/warp/xp-tracker/config"
	"github.com/warp/xp-tracker/factory"
	"github.com/warp/xp-tracker/logging"
	"github.com/warp/xp-tracker/pointtable"
	"github.com/warp/xp-tracker/qualification"
	"github.com/warp/xp-tracker/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags
	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *port, *dbPath, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, port, dbPath string, logger logging.Logger) error {
	program, err := loadProgram(cfg)
	if err != nil {
		return err
	}
	engine, err := qualification.NewEngine(program)
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := api.NewMetrics(registry, "xptracker")

	handler := api.NewHandler(store, engine, pointtable.NewResolver(nil, nil), logger, metrics)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	scheduler := api.NewSnapshotScheduler(handler)
	scheduler.Enabled = cfg.SnapshotsEnabled
	scheduler.CheckInterval = cfg.SnapshotInterval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", server.Addr,
			"db", dbPath,
			"program", program.Name,
			"levels", len(program.Levels),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// loadProgram prefers PROGRAM_FILE over the named preset.
func loadProgram(cfg *config.Config) (qualification.Program, error) {
	f := factory.NewProgramFactory()
	if cfg.ProgramFile != "" {
		return f.LoadProgramFile(cfg.ProgramFile)
	}
	return f.Preset(cfg.ProgramPreset)
}
