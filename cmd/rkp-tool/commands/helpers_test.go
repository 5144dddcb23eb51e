package commands

import (
	"path/filepath"
	"testing"

	"github.com/remoteprov/rkp-go/pkg/log"
)

// createTestLogFile writes events to a temporary log file and returns its path.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}
