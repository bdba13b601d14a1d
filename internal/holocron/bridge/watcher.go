// Package bridge watches the WoW SavedVariables directory and feeds
// changed addon files to the ingestor.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/holocron/holocron-server/internal/holocron/ingest"
)

// defaultDebounce is how long a file must stay quiet before it is
// ingested. The game client rewrites SavedVariables in bursts.
const defaultDebounce = 2 * time.Second

// Watcher tails a SavedVariables directory.
type Watcher struct {
	dir      string
	ingestor *ingest.Ingestor
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a Watcher over dir.
func NewWatcher(dir string, ingestor *ingest.Ingestor, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		ingestor: ingestor,
		debounce: defaultDebounce,
		logger:   logger,
	}
}

// wanted reports whether a file is an addon save we ingest.
func wanted(name string) bool {
	base := filepath.Base(name)
	if base == "SavedInstances.lua" {
		return true
	}
	return strings.HasPrefix(base, "DataStore") && strings.HasSuffix(base, ".lua")
}

// Run watches until ctx is cancelled. Files already present are
// ingested once at startup so a fresh database catches up without
// waiting for the game to save.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := os.Stat(w.dir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching SavedVariables", "dir", w.dir)

	// pending maps path to the time of its last write event.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !wanted(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

// ingestExisting processes every matching file already in the
// directory.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !wanted(entry.Name()) {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("reading save file", "path", path, "error", err)
		return
	}

	source := strings.TrimSuffix(filepath.Base(path), ".lua")
	if err := w.ingestor.IngestSavedVariables(ctx, source, string(data)); err != nil {
		w.logger.Warn("ingesting save file", "source", source, "error", err)
		return
	}
	w.logger.Info("ingested save file", "source", source, "bytes", len(data))
}
