// Package commands implements the rkp-tool CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/remoteprov/rkp-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Operation *log.Operation
	Outcome   *log.Outcome
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [op:id] OPERATION OUTCOME
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [op:%s] %s %s\n", ts, shortenID(event.OperationID), event.Operation, event.Outcome)

	if len(event.KeyID) > 0 {
		fmt.Fprintf(w, "  Key: %s\n", hex.EncodeToString(event.KeyID))
	}
	if event.Detail != "" {
		fmt.Fprintf(w, "  Detail: %s\n", event.Detail)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an operation ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Error: %s", err.Kind)
	if err.Reason != "" {
		fmt.Fprintf(w, " %s", err.Reason)
	}
	if err.Field != "" {
		fmt.Fprintf(w, " (%s)", err.Field)
	}
	if err.Code != 0 {
		fmt.Fprintf(w, " code=%d", err.Code)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
}

// ParseOperationFlag parses an operation string from command-line flag (case-insensitive).
func ParseOperationFlag(s string) (log.Operation, error) {
	return parseOperation(s)
}

// parseOperation accepts either the event name ("validate_chain") or its
// dashed form ("validate-chain").
func parseOperation(s string) (log.Operation, error) {
	name := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for op := log.OpDeriveSend; op <= log.OpValidateChain; op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operation: %s (must be derive-send, derive-receive, sign, verify, extract, build-chain, or validate-chain)", s)
}

// ParseOutcomeFlag parses an outcome string from command-line flag (case-insensitive).
func ParseOutcomeFlag(s string) (log.Outcome, error) {
	return parseOutcome(s)
}

// parseOutcome parses an outcome string (case-insensitive).
func parseOutcome(s string) (log.Outcome, error) {
	switch strings.ToLower(s) {
	case "success":
		return log.OutcomeSuccess, nil
	case "rejected":
		return log.OutcomeRejected, nil
	case "error":
		return log.OutcomeError, nil
	default:
		return 0, fmt.Errorf("invalid outcome: %s (must be success, rejected, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Operation: filter.Operation,
		Outcome:   filter.Outcome,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
