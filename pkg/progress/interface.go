// Package progress provides the optional progress-reporting capability used
// by the batch drivers. Callers always hold a Reporter; the no-op default
// keeps the driver logic free of presence checks.
package progress

import "context"

// Reporter receives periodic completion counts from a batch run.
// Implementations must tolerate being called for every record.
type Reporter interface {
	// Report is called with the number of records completed so far.
	Report(ctx context.Context, completed int)

	// Done is called once at the end of the run with the final total.
	Done(ctx context.Context, total int)
}
