package commands

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/remoteprov/rkp-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output      string
	OperationID string
	KeyID       string
	TimeStart   string
	TimeEnd     string
	Operation   string
	Outcome     string
}

// RunFilter filters the log file and writes matching events to a new file.
// It returns the number of events written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter := log.Filter{
		OperationID: opts.OperationID,
	}

	if opts.KeyID != "" {
		id, err := hex.DecodeString(opts.KeyID)
		if err != nil {
			return 0, fmt.Errorf("invalid key-id: %w", err)
		}
		filter.KeyID = id
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return 0, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return 0, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Operation != "" {
		op, err := parseOperation(opts.Operation)
		if err != nil {
			return 0, err
		}
		filter.Operation = &op
	}

	if opts.Outcome != "" {
		o, err := parseOutcome(opts.Outcome)
		if err != nil {
			return 0, err
		}
		filter.Outcome = &o
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered events
	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for event, err := range reader.All() {
		if err != nil {
			logger.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}

	return count, logger.Close()
}
