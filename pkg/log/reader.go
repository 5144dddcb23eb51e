package log

import (
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// OperationID filters by exact operation ID match.
	OperationID string

	// Operation filters by operation kind.
	Operation *Operation

	// Outcome filters by outcome.
	Outcome *Outcome

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time

	// KeyID filters by key digest.
	KeyID []byte
}

// matches returns true if the event matches all filter criteria.
func (f *Filter) matches(event Event) bool {
	if f.OperationID != "" && event.OperationID != f.OperationID {
		return false
	}
	if f.Operation != nil && event.Operation != *f.Operation {
		return false
	}
	if f.Outcome != nil && event.Outcome != *f.Outcome {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if len(f.KeyID) > 0 && string(event.KeyID) != string(f.KeyID) {
		return false
	}
	return true
}

// Reader streams trust events from a CBOR-encoded log file, returning only
// those that match its filter.
type Reader struct {
	f      *os.File
	dec    *cbor.Decoder
	filter Filter
	n      int // records decoded so far
}

// NewReader opens path and returns every event in it.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens path and returns only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Reader{f: f, dec: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at a clean end of file.
// A record cut short by a crash mid-write is reported as
// io.ErrUnexpectedEOF together with its index.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		if err == io.EOF {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, fmt.Errorf("record %d: %w", r.n, err)
		}
		r.n++
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// All iterates over the remaining matching events. Iteration stops after
// the first error, which is yielded with a zero Event.
func (r *Reader) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
