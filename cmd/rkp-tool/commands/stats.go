package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/remoteprov/rkp-go/pkg/log"
)

// Stats holds aggregate statistics about a trust log file.
type Stats struct {
	TotalEvents       int
	EventsByOperation map[log.Operation]int
	EventsByOutcome   map[log.Outcome]int
	ErrorsByReason    map[string]int
	Keys              map[string]*KeyStats
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// KeyStats holds statistics for a single key digest.
type KeyStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Rejected  int
	Errors    int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByOperation: make(map[log.Operation]int),
		EventsByOutcome:   make(map[log.Outcome]int),
		ErrorsByReason:    make(map[string]int),
		Keys:              make(map[string]*KeyStats),
	}

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByOperation[event.Operation]++
		stats.EventsByOutcome[event.Outcome]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Error != nil {
			reason := event.Error.Reason
			if reason == "" {
				reason = event.Error.Kind.String()
			}
			stats.ErrorsByReason[reason]++
		}

		if len(event.KeyID) == 0 {
			continue
		}
		id := hex.EncodeToString(event.KeyID)
		ks, ok := stats.Keys[id]
		if !ok {
			ks = &KeyStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Keys[id] = ks
		}
		ks.Events++
		if event.Timestamp.After(ks.LastSeen) {
			ks.LastSeen = event.Timestamp
		}
		switch event.Outcome {
		case log.OutcomeRejected:
			ks.Rejected++
		case log.OutcomeError:
			ks.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Trust Event Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for op := log.OpDeriveSend; op <= log.OpValidateChain; op++ {
		if count := stats.EventsByOperation[op]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Outcome:")
	for _, o := range []log.Outcome{log.OutcomeSuccess, log.OutcomeRejected, log.OutcomeError} {
		if count := stats.EventsByOutcome[o]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", o.String()+":", count)
		}
	}

	if len(stats.ErrorsByReason) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by Reason:")
		reasons := make([]string, 0, len(stats.ErrorsByReason))
		for r := range stats.ErrorsByReason {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(w, "  %-24s %d\n", r+":", stats.ErrorsByReason[r])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Keys: %d\n", len(stats.Keys))
	if len(stats.Keys) == 0 {
		return
	}

	// Sort by first seen time
	type keyInfo struct {
		id    string
		stats *KeyStats
	}
	keys := make([]keyInfo, 0, len(stats.Keys))
	for id, ks := range stats.Keys {
		keys = append(keys, keyInfo{id, ks})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].stats.FirstSeen.Before(keys[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "  [%s] %d events", shortenID(k.id), k.stats.Events)
		if k.stats.Rejected > 0 {
			fmt.Fprintf(w, ", %d rejected", k.stats.Rejected)
		}
		if k.stats.Errors > 0 {
			fmt.Fprintf(w, ", %d errors", k.stats.Errors)
		}
		fmt.Fprintln(w)
	}
}
