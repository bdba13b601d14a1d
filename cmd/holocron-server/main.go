// Holocron account data server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/holocron/holocron-server/internal/holocron/bridge"
	"github.com/holocron/holocron-server/internal/holocron/config"
	"github.com/holocron/holocron-server/internal/holocron/db"
	"github.com/holocron/holocron-server/internal/holocron/engine"
	"github.com/holocron/holocron-server/internal/holocron/ingest"
	"github.com/holocron/holocron-server/internal/holocron/rpc"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	watchDir := flag.String("watch", "", "SavedVariables directory to watch (overrides config)")
	importRef := flag.String("import", "", "Import reference data from JSON file")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *watchDir != "" {
		cfg.WatchDir = *watchDir
	}
	if *verbose {
		cfg.Verbose = true
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	database, err := db.OpenAndInit(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	ingestor := ingest.NewIngestor(database, logger)

	// Handle import command
	if *importRef != "" {
		logger.Info("importing reference data", "file", *importRef)
		if err := ingestor.ImportReferenceFile(ctx, *importRef); err != nil {
			logger.Error("failed to import reference data", "error", err)
			os.Exit(1)
		}
		logger.Info("reference data imported successfully")

		// If only doing imports, exit
		if flag.NArg() == 0 {
			return
		}
	}

	// Start the SavedVariables bridge when a watch directory is set
	if cfg.WatchDir != "" {
		watcher := bridge.NewWatcher(cfg.WatchDir, ingestor, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("bridge stopped", "error", err)
			}
		}()
	}

	// Create engine and server
	opts := engine.Options{
		ParagonOpportunityPct: cfg.Diplomat.OpportunityPct,
		ParagonHighPct:        cfg.Diplomat.HighPriorityPct,
		RecommendedQuestLimit: cfg.Diplomat.RecommendedQuestLimit,
	}
	eng := engine.New(database, opts, logger)
	server := rpc.NewServer(eng, logger)

	// Run tool server over stdio
	logger.Info("starting holocron server", "db", cfg.DBPath)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "server stopped")
}
