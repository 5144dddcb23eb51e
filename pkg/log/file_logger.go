package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends trust events to a file as a CBOR sequence.
// It is safe for concurrent use.
type FileLogger struct {
	mu  sync.Mutex
	f   *os.File // nil once closed
	enc *cbor.Encoder
	err error // first write failure
}

// NewFileLogger opens path for appending, creating it with mode 0600.
// Key digests identify provisioned devices, so the file is not world
// readable.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &FileLogger{f: f, enc: NewEncoder(f)}, nil
}

// Log appends event. A failed write never reaches the operation that
// emitted the event; the first one is kept for Err and Close.
// Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return
	}
	if err := l.enc.Encode(event); err != nil && l.err == nil {
		l.err = fmt.Errorf("write event log: %w", err)
	}
}

// Err returns the first write failure, if any.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the file and returns the first write failure or, failing
// that, the close error. Closing twice is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if l.err != nil {
		return l.err
	}
	return err
}

var _ Logger = (*FileLogger)(nil)
