package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("permissions: got %o, want owner-only", perm)
	}
}

func TestFileLoggerWritesReadableEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	first := NewEvent(OpDeriveSend, OutcomeSuccess).WithKey([]byte{1, 2})
	second := NewEvent(OpVerify, OutcomeRejected)
	logger.Log(first)
	logger.Log(second)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	got1, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got1.OperationID != first.OperationID {
		t.Errorf("first event: got %q, want %q", got1.OperationID, first.OperationID)
	}
	got2, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got2.Outcome != OutcomeRejected {
		t.Errorf("second outcome: got %v, want REJECTED", got2.Outcome)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rlog")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(NewEvent(OpSign, OutcomeSuccess))
		logger.Close()
	}

	if n := countEvents(t, path, Filter{}); n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
}

func TestFileLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const goroutines = 10
	const perGoroutine = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				logger.Log(NewEvent(OpDeriveReceive, OutcomeSuccess))
			}
		}()
	}
	wg.Wait()
	logger.Close()

	if n := countEvents(t, path, Filter{}); n != goroutines*perGoroutine {
		t.Errorf("got %d events, want %d", n, goroutines*perGoroutine)
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFileLogger(filepath.Join(dir, "test.rlog"))
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// Log after close is ignored.
	logger.Log(NewEvent(OpSign, OutcomeSuccess))
}

func TestNewFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.rlog"))
	if err == nil {
		t.Error("expected error for nonexistent directory")
	}
}

func countEvents(t *testing.T, path string, filter Filter) int {
	t.Helper()
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			return n
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		n++
	}
}

func TestFileLoggerKeepsWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trust.rlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	// Close the file underneath the logger so the next write fails.
	logger.f.Close()
	logger.Log(NewEvent(OpSign, OutcomeSuccess))

	if logger.Err() == nil {
		t.Fatal("expected write error")
	}
	if err := logger.Close(); err == nil {
		t.Error("Close should report the write error")
	}
}

func TestFileLoggerDropsAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trust.rlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Close()
	logger.Log(NewEvent(OpSign, OutcomeSuccess))

	if logger.Err() != nil {
		t.Errorf("Err after close: %v", logger.Err())
	}
	if n := countEvents(t, path, Filter{}); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}
