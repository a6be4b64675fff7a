package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// startWatcher runs a watcher on a fresh fixture copy until stop is called
func startWatcher(t *testing.T) (dir string, holder *StoreHolder, metrics *Metrics, reloads <-chan error, stop func()) {
	t.Helper()
	dir = writeFixtureDir(t)
	holder = NewStoreHolder(loadTestStore(t))
	metrics = NewMetrics()

	ch := make(chan error, 8)
	fw := NewFixtureWatcher(dir, 20*time.Millisecond, holder, metrics)
	fw.OnReload = func(err error) {
		select {
		case ch <- err:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx)
	}()
	stop = func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	}
	return dir, holder, metrics, ch, stop
}

// waitForReload repeats write until the watcher reports a reload whose result
// satisfies accept. The watch may not be registered yet when the first write
// happens, and a reload can race a half-written file.
func waitForReload(t *testing.T, reloads <-chan error, write func(), accept func(error) bool) error {
	t.Helper()
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	write()
	for {
		select {
		case err := <-reloads:
			if accept(err) {
				return err
			}
		case <-ticker.C:
			write()
		case <-deadline:
			t.Fatal("no matching reload within 5s")
			return nil
		}
	}
}

func succeeded(err error) bool { return err == nil }

func failed(err error) bool { return err != nil }

func TestFixtureWatcher_ReloadsChangedFixtures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir, holder, metrics, reloads, stop := startWatcher(t)
	defer stop()
	path := filepath.Join(dir, PersonasFile)
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	renamed := strings.Replace(string(original), `"name": "Anna"`, `"name": "Annabelle"`, 1)
	require.NotEqual(t, string(original), renamed)

	err = waitForReload(t, reloads, func() {
		require.NoError(t, os.WriteFile(path, []byte(renamed), 0644))
	}, succeeded)
	require.NoError(t, err)

	anna, ok := holder.Get().Persona("anna")
	require.True(t, ok)
	assert.Equal(t, "Annabelle", anna.Name)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.reloads.WithLabelValues("ok")), 1.0)
}

func TestFixtureWatcher_KeepsStoreOnInvalidFixtures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir, holder, metrics, reloads, stop := startWatcher(t)
	defer stop()
	before := holder.Get()

	err := waitForReload(t, reloads, func() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, TaxDataFile), []byte(`{"taxRates": `), 0644))
	}, failed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), TaxDataFile)

	assert.Same(t, before, holder.Get())
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.reloads.WithLabelValues("error")), 1.0)
}

func TestFixtureWatcher_MissingDirectory(t *testing.T) {
	fw := NewFixtureWatcher(filepath.Join(t.TempDir(), "absent"), time.Millisecond, NewStoreHolder(nil), nil)
	err := fw.Run(context.Background())
	assert.ErrorContains(t, err, "absent")
}

func TestIsFixtureEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/data/personas.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/data/personas.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/data/personas.json", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/data/personas.json", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/data/personas.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/data/.personas.json.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, isFixtureEvent(tc.event), "%s %s", tc.event.Op, tc.event.Name)
	}
}
