package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCollector_RecordOperation(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordOperation(ctx, "import", "success", 1000)
	collector.RecordOperation(ctx, "import", "success", 1500)
	collector.RecordOperation(ctx, "import", "error", 500)
	collector.RecordOperation(ctx, "chunk", "success", 200)

	if got := testutil.CollectAndCount(collector.operationsTotal); got != 3 {
		t.Errorf("expected 3 metric series (import/success, import/error, chunk/success), got %d", got)
	}

	importSuccess := testutil.ToFloat64(collector.operationsTotal.WithLabelValues("import", "success"))
	if importSuccess != 2 {
		t.Errorf("expected 2 import/success operations, got %f", importSuccess)
	}

	importError := testutil.ToFloat64(collector.operationsTotal.WithLabelValues("import", "error"))
	if importError != 1 {
		t.Errorf("expected 1 import/error operation, got %f", importError)
	}
}

func TestMetricsCollector_RecordStage(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordStage(ctx, "import", "read", 100)
	collector.RecordStage(ctx, "import", "merge_write", 2500)
	collector.RecordStage(ctx, "import", "merge_write", 3000)

	if got := testutil.CollectAndCount(collector.operationDuration); got != 2 {
		t.Errorf("expected 2 histogram series, got %d", got)
	}
}

func TestMetricsCollector_RecordError(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordError(ctx, "import", "not_found")
	collector.RecordError(ctx, "import", "parse")
	collector.RecordError(ctx, "import", "parse")

	parseErrors := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("import", "parse"))
	if parseErrors != 2 {
		t.Errorf("expected 2 import/parse errors, got %f", parseErrors)
	}
}

func TestMetricsCollector_SetStorageCount(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.SetStorageCount(ctx, "tokens", 1200)
	collector.SetStorageCount(ctx, "shards_populated", 37)
	collector.SetStorageCount(ctx, "tokens", 1250)

	tokens := testutil.ToFloat64(collector.storageCount.WithLabelValues("tokens"))
	if tokens != 1250 {
		t.Errorf("expected tokens gauge 1250, got %f", tokens)
	}

	shards := testutil.ToFloat64(collector.storageCount.WithLabelValues("shards_populated"))
	if shards != 37 {
		t.Errorf("expected shards_populated gauge 37, got %f", shards)
	}
}

func TestRegistryExposure(t *testing.T) {
	collector := NewCollector()
	if collector.Registry() == nil {
		t.Error("expected a non-nil registry for HTTP exposure")
	}
}
