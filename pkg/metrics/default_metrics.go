//go:build metrics

package metrics

// DefaultCollector returns the collector matching the build: Prometheus here.
func DefaultCollector() Collector {
	return NewCollector()
}
