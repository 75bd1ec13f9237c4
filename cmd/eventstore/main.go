// Package main is the entry point for the event store archive process.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cacack/go-eventstore/internal/archive"
	"github.com/cacack/go-eventstore/internal/config"
	"github.com/cacack/go-eventstore/internal/store"
	"github.com/cacack/go-eventstore/internal/store/postgres"
	"github.com/cacack/go-eventstore/internal/store/sqlite"
)

// Build-time variables injected by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "archive":
		runArchiver()
	case "version":
		fmt.Printf("eventstore %s (commit: %s, built: %s)\n", version, commit, date)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`eventstore - durable, ordered event store with tiered archival

Usage:
  eventstore <command>

Commands:
  archive   Run the archive coordinator on a fixed interval until stopped
  version   Show version information
  help      Show this help message

Environment Variables:
  DATABASE_URL      PostgreSQL connection string (optional, uses SQLite by default)
  SQLITE_PATH       SQLite database path (default: ./eventstore.db)
  ARCHIVE_DIR       Cold archive segment directory (default: ./archive)
  ARCHIVE_INTERVAL  Interval between archive runs, e.g. 5m (default: 5m)
  STORE_NAME        Logical store name / table prefix (default: eventstore)
  LOG_LEVEL         Log level: debug, info, warn, error (default: info)`)
}

func runArchiver() {
	cfg := config.Load()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if err := os.MkdirAll(cfg.ArchiveDir, 0o755); err != nil {
		log.Fatalf("create archive directory: %v", err)
	}

	transactor, closer, err := openTransactor(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closer()

	fileStore := archive.NewFileStore(cfg.ArchiveDir)
	coordinator := archive.NewCoordinator(transactor, fileStore, logger)

	if cfg.UsePostgreSQL() {
		log.Printf("Database: PostgreSQL")
	} else {
		log.Printf("Database: SQLite (%s)", cfg.SQLitePath)
	}
	log.Printf("Archive directory: %s", cfg.ArchiveDir)
	log.Printf("Archive interval: %s", cfg.ArchiveInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.ArchiveInterval)
	defer ticker.Stop()

	for {
		if err := coordinator.Archive(ctx); err != nil {
			log.Printf("archive run failed: %v", err)
		} else {
			log.Printf("archive run complete")
		}

		select {
		case <-ctx.Done():
			log.Println("Shutting down archiver...")
			return
		case <-ticker.C:
		}
	}
}

// openTransactor opens the configured database and returns its
// store.ArchiveTransactor implementation plus a close function.
func openTransactor(cfg *config.Config) (store.ArchiveTransactor, func() error, error) {
	if cfg.UsePostgreSQL() {
		db, err := postgres.OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		s, err := postgres.NewStore(db, cfg.StoreName, nil)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("new postgres store: %w", err)
		}
		if err := s.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		return s, s.Close, nil
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	s, err := sqlite.NewStore(db, cfg.StoreName, nil)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("new sqlite store: %w", err)
	}
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure sqlite schema: %w", err)
	}
	return s, s.Close, nil
}
