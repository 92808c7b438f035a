package trace

import (
	"context"
	"time"
)

// Exporter defines the interface for exporting import-run traces.
// Implementations must be safe for concurrent use.
type Exporter interface {
	// Export writes a run record to the configured destination.
	// Returns error if export fails.
	Export(ctx context.Context, record *RunRecord) error

	// Close flushes any buffered records and releases resources.
	// Should be called during graceful shutdown.
	Close() error
}

// RunRecord is a sanitized trace of one batch run. It carries counters and
// timings only, never token content.
type RunRecord struct {
	// Timestamp is the run start time
	Timestamp time.Time `json:"timestamp"`

	// RunID uniquely identifies this run (for correlation with the ledger)
	RunID string `json:"runId"`

	// Operation is the run type: "import", "chunk", "pairdist", "dry_run"
	Operation string `json:"operation"`

	// DurationMs is the total run duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// Status is "success" or "error"
	Status string `json:"status"`

	// Spans contains per-stage timing and status
	Spans []SpanRecord `json:"spans"`

	// ErrorType classifies the error (if Status == "error")
	// Values: not_found, parse, io, validation, database, unknown
	ErrorType string `json:"errorType,omitempty"`

	// Counters provides run-level totals (e.g., tokensMerged, shardsWritten)
	Counters map[string]int64 `json:"counters,omitempty"`
}

// SpanRecord represents a single stage within a run.
type SpanRecord struct {
	// Name is the stage name (read, accumulate, merge-write, manifest)
	Name string `json:"name"`

	// DurationMs is the stage duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// OK indicates success (true) or failure (false)
	OK bool `json:"ok"`

	// ErrorType classifies the error (if OK == false)
	ErrorType string `json:"errorType,omitempty"`

	// Counters provides stage-specific totals (e.g., recordCount)
	Counters map[string]int64 `json:"counters,omitempty"`
}

// FileExporterOption configures a FileExporter.
// This type is available in both tracing and non-tracing builds to maintain API compatibility.
type FileExporterOption func(interface{})
