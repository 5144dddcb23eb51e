package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes trust events to an slog.Logger.
// Useful for development when you want to see events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Successful operations are logged
// at Debug, rejections at Info and errors at Warn.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("op_id", event.OperationID),
		slog.String("operation", event.Operation.String()),
		slog.String("outcome", event.Outcome.String()),
	}

	if len(event.KeyID) > 0 {
		attrs = append(attrs, slog.String("key_id", hex.EncodeToString(event.KeyID)))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	if event.Error != nil {
		attrs = append(attrs,
			slog.String("error_kind", event.Error.Kind.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Reason != "" {
			attrs = append(attrs, slog.String("error_reason", event.Error.Reason))
		}
		if event.Error.Field != "" {
			attrs = append(attrs, slog.String("error_field", event.Error.Field))
		}
	}

	level := slog.LevelDebug
	switch event.Outcome {
	case OutcomeRejected:
		level = slog.LevelInfo
	case OutcomeError:
		level = slog.LevelWarn
	}

	a.logger.LogAttrs(context.Background(), level, "trust", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
