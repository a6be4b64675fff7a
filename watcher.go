package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FixtureWatcher reloads the store when JSON files in the data directory
// change. A reload that fails to load or validate leaves the previous store
// in place.
type FixtureWatcher struct {
	dir      string
	debounce time.Duration
	holder   *StoreHolder
	metrics  *Metrics

	// OnReload is called after every reload attempt, mostly for tests
	OnReload func(err error)
}

// NewFixtureWatcher watches dir and swaps new stores into holder
func NewFixtureWatcher(dir string, debounce time.Duration, holder *StoreHolder, metrics *Metrics) *FixtureWatcher {
	return &FixtureWatcher{
		dir:      dir,
		debounce: debounce,
		holder:   holder,
		metrics:  metrics,
	}
}

// Run blocks until ctx is cancelled
func (fw *FixtureWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("watch %s: %w", fw.dir, err)
	}
	Log.Info("Watching fixtures", zap.String("dir", fw.dir), zap.Duration("debounce", fw.debounce))

	// Stopped timer; armed by the first relevant event
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			Log.Debug("Fixture watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFixtureEvent(event) {
				continue
			}
			Log.Debug("Fixture changed", zap.String("file", filepath.Base(event.Name)), zap.String("op", event.Op.String()))
			timer.Reset(fw.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			Log.Warn("Fixture watcher error", zap.Error(err))

		case <-timer.C:
			fw.reload(ctx)
		}
	}
}

func (fw *FixtureWatcher) reload(ctx context.Context) {
	store, err := LoadStore(ctx, os.DirFS(fw.dir))
	fw.metrics.ObserveReload(err)
	if err != nil {
		Log.Error("Fixture reload failed, keeping previous data", zap.String("dir", fw.dir), zap.Error(err))
	} else {
		fw.holder.Set(store)
		Log.Info("Fixtures reloaded", zap.Int("personas", len(store.Personas())))
	}
	if fw.OnReload != nil {
		fw.OnReload(err)
	}
}

// isFixtureEvent filters out editor swap files and chmod noise
func isFixtureEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".json") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
