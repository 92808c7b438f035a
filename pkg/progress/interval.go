package progress

import (
	"context"
	"log/slog"
	"time"
)

// IntervalReporter logs a progress line every Interval records. An interval
// of zero disables the periodic lines; Done still logs the final total.
type IntervalReporter struct {
	logger   *slog.Logger
	interval int
	start    time.Time
}

// NewIntervalReporter creates a reporter logging through logger every
// interval records. A nil logger uses the default slog logger.
func NewIntervalReporter(logger *slog.Logger, interval int) *IntervalReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if interval < 0 {
		interval = 0
	}
	return &IntervalReporter{logger: logger, interval: interval, start: time.Now()}
}

// Report logs every interval-th completion with elapsed time.
func (r *IntervalReporter) Report(ctx context.Context, completed int) {
	if r.interval == 0 || completed == 0 || completed%r.interval != 0 {
		return
	}
	r.logger.InfoContext(ctx, "processed tokens",
		"completed", completed,
		"elapsed", time.Since(r.start).Round(10*time.Millisecond).String(),
	)
}

// Done logs the final total.
func (r *IntervalReporter) Done(ctx context.Context, total int) {
	r.logger.InfoContext(ctx, "processing complete",
		"total", total,
		"elapsed", time.Since(r.start).Round(10*time.Millisecond).String(),
	)
}
