package progress

import "context"

// NoopReporter discards all progress updates. It is the default when no
// reporting facility is configured.
type NoopReporter struct{}

// NewNoopReporter creates a no-op reporter.
func NewNoopReporter() *NoopReporter {
	return &NoopReporter{}
}

// Report does nothing.
func (n *NoopReporter) Report(ctx context.Context, completed int) {}

// Done does nothing.
func (n *NoopReporter) Done(ctx context.Context, total int) {}
