package testsupport

import (
	"testing"

	"intake/internal/config"
	"intake/internal/logging"
	"intake/internal/reviewlog"
	"intake/internal/tracker"
)

// MustOpenStore opens a tracker.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *tracker.Store {
	t.Helper()

	store, err := tracker.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("tracker.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustOpenLog opens a reviewlog.Store for tests and registers cleanup.
func MustOpenLog(t testing.TB, cfg *config.Config) *reviewlog.Store {
	t.Helper()

	log, err := reviewlog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("reviewlog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = log.Close()
	})
	return log
}
