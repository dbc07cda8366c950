// Package trace exports operation traces as JSON Lines for offline
// debugging of ingestion, queries and agent cycles.
package trace

import (
	"context"
	"time"
)

// Exporter writes operation traces. Implementations must be safe for
// concurrent use.
type Exporter interface {
	// Export writes one trace record to the configured destination.
	Export(ctx context.Context, record *Record) error

	// Close flushes buffered records and releases resources.
	Close() error
}

// Record is a sanitized operation trace. It carries ids, timings and
// counters only; never note content or prompts.
type Record struct {
	// Timestamp is the operation start time.
	Timestamp time.Time `json:"timestamp"`

	// OperationID uniquely identifies this operation for correlation.
	OperationID string `json:"operationId"`

	// Operation names what ran: "ingest_note", "find_paths",
	// "agent_cycle" and so on.
	Operation string `json:"operation"`

	// Agent is set when the operation was a background agent cycle.
	Agent string `json:"agent,omitempty"`

	// DurationMs is the total operation duration in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// Status is "success" or "error".
	Status string `json:"status"`

	// ErrorType classifies the failure when Status is "error".
	ErrorType string `json:"errorType,omitempty"`

	// Counters carries operation-specific totals, e.g. nodes upserted,
	// paths found, connections committed.
	Counters map[string]int64 `json:"counters,omitempty"`

	// IDs carries operation-specific identifiers (no content).
	IDs map[string]string `json:"ids,omitempty"`
}
