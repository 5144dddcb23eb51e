package commands

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/remoteprov/rkp-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *log.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent is the JSON shape of an exported event.
type jsonEvent struct {
	Timestamp   string              `json:"timestamp"`
	OperationID string              `json:"operation_id"`
	Operation   string              `json:"operation"`
	Outcome     string              `json:"outcome"`
	KeyID       string              `json:"key_id,omitempty"`
	Detail      string              `json:"detail,omitempty"`
	Error       *log.ErrorEventData `json:"error,omitempty"`
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		out := jsonEvent{
			Timestamp:   event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			OperationID: event.OperationID,
			Operation:   event.Operation.String(),
			Outcome:     event.Outcome.String(),
			KeyID:       hex.EncodeToString(event.KeyID),
			Detail:      event.Detail,
			Error:       event.Error,
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "operation_id", "operation", "outcome", "key_id", "detail", "error_reason", "error_field", "error_code"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var reason, field, code string
		if event.Error != nil {
			reason = event.Error.Reason
			field = event.Error.Field
			if event.Error.Code != 0 {
				code = strconv.Itoa(event.Error.Code)
			}
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.OperationID,
			event.Operation.String(),
			event.Outcome.String(),
			hex.EncodeToString(event.KeyID),
			event.Detail,
			reason,
			field,
			code,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
