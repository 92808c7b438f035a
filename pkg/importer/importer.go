// Package importer merges HLSF database exports into the on-disk bigram
// shard layout.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
	"github.com/hlsf-tools/hlsfdb/pkg/metrics"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
	"github.com/hlsf-tools/hlsfdb/pkg/store"
	"github.com/hlsf-tools/hlsfdb/pkg/trace"
)

// TokenRecord is one entry of the source export's token array.
type TokenRecord struct {
	Token         string                  `json:"token"`
	Relationships map[string][]shard.Edge `json:"relationships"`
	CachedAt      string                  `json:"cached_at,omitempty"`
}

// Config wires an Importer. Store is required; everything else has a
// working default.
type Config struct {
	// Store is the shard store for the target root.
	Store *store.ShardStore

	// FallbackLetter substitutes for non-alphabetic bigram positions
	// (default "Z").
	FallbackLetter string

	// Codec decodes the source export (default codec.Default).
	Codec codec.Codec

	// Logger receives run-level log lines (default slog.Default()).
	Logger *slog.Logger

	// Reporter receives per-record progress (default no-op).
	Reporter progress.Reporter

	// Collector receives operation metrics (default per build tags).
	Collector metrics.Collector

	// Tracer receives run traces (default no-op).
	Tracer trace.Exporter

	// Tracker, when set, records completed runs in the import ledger.
	Tracker store.RunTracker

	// SkipImported makes Import a no-op for a source whose content hash
	// is already in the ledger. Requires Tracker.
	SkipImported bool
}

// Importer reads a source export, accumulates records per bigram bucket in
// memory, and merges the result into every on-disk shard.
type Importer struct {
	store          *store.ShardStore
	fallbackLetter string
	codec          codec.Codec
	logger         *slog.Logger
	reporter       progress.Reporter
	collector      metrics.Collector
	tracer         trace.Exporter
	tracker        store.RunTracker
	skipImported   bool
}

// Result summarizes one import run.
type Result struct {
	RunID         string
	SourceHash    string
	TokensMerged  int
	ShardsWritten int
	// Skipped is true when the ledger already held the source hash and
	// SkipImported was set; no shard was touched.
	Skipped bool
}

// New creates an Importer, applying defaults for unset optional fields.
func New(cfg Config) (*Importer, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("importer: Store is required")
	}
	if cfg.FallbackLetter == "" {
		cfg.FallbackLetter = shard.DefaultFallbackLetter
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = progress.NewNoopReporter()
	}
	if cfg.Collector == nil {
		cfg.Collector = metrics.DefaultCollector()
	}
	if cfg.SkipImported && cfg.Tracker == nil {
		return nil, fmt.Errorf("importer: SkipImported requires a Tracker")
	}

	return &Importer{
		store:          cfg.Store,
		fallbackLetter: cfg.FallbackLetter,
		codec:          cfg.Codec,
		logger:         cfg.Logger,
		reporter:       cfg.Reporter,
		collector:      cfg.Collector,
		tracer:         cfg.Tracer,
		tracker:        cfg.Tracker,
		skipImported:   cfg.SkipImported,
	}, nil
}

// Import merges the export at sourcePath into the shard root. Every bucket
// of the 26x26 space is rewritten, untouched ones included, so updated_at
// stays uniform across the layout. A missing source or malformed JSON
// aborts before any shard is written.
func (imp *Importer) Import(ctx context.Context, sourcePath string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.New().String()}
	var spans []trace.SpanRecord

	fail := func(stage string, err error) (*Result, error) {
		errType := metrics.ClassifyError(err)
		spans = append(spans, trace.SpanRecord{Name: stage, OK: false, ErrorType: errType})
		imp.collector.RecordError(ctx, "import", errType)
		imp.collector.RecordOperation(ctx, "import", "error", time.Since(start).Milliseconds())
		imp.exportTrace(ctx, result, "import", start, "error", errType, spans)
		return nil, err
	}

	if err := imp.store.EnsureLayout(ctx); err != nil {
		return fail("layout", fmt.Errorf("ensure shard layout: %w", err))
	}

	readStart := time.Now()
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fail("read", fmt.Errorf("read source export: %w", err))
	}
	sum := sha256.Sum256(data)
	result.SourceHash = hex.EncodeToString(sum[:])

	if imp.skipImported {
		imported, err := imp.tracker.IsSourceImported(ctx, result.SourceHash)
		if err != nil {
			return fail("read", err)
		}
		if imported {
			imp.logger.InfoContext(ctx, "source already imported, skipping",
				"source", sourcePath, "hash", result.SourceHash)
			result.Skipped = true
			return result, nil
		}
	}

	records, err := decodeSource(imp.codec, data)
	if err != nil {
		return fail("read", err)
	}
	spans = append(spans, trace.SpanRecord{
		Name: "read", DurationMs: time.Since(readStart).Milliseconds(), OK: true,
		Counters: map[string]int64{"recordCount": int64(len(records))},
	})
	imp.collector.RecordStage(ctx, "import", "read", time.Since(readStart).Milliseconds())

	accumStart := time.Now()
	accum, merged := imp.accumulate(ctx, records)
	result.TokensMerged = merged
	spans = append(spans, trace.SpanRecord{
		Name: "accumulate", DurationMs: time.Since(accumStart).Milliseconds(), OK: true,
		Counters: map[string]int64{"tokensMerged": int64(merged)},
	})
	imp.collector.RecordStage(ctx, "import", "accumulate", time.Since(accumStart).Milliseconds())

	writeStart := time.Now()
	for _, bigram := range shard.Bigrams {
		onDisk, err := imp.store.Load(ctx, bigram)
		if err != nil {
			return fail("merge-write", err)
		}
		mergedDoc := shard.MergeDocuments(onDisk, accum[bigram])
		if err := imp.store.Persist(ctx, bigram, mergedDoc); err != nil {
			return fail("merge-write", err)
		}
		result.ShardsWritten++
	}
	spans = append(spans, trace.SpanRecord{
		Name: "merge-write", DurationMs: time.Since(writeStart).Milliseconds(), OK: true,
		Counters: map[string]int64{"shardsWritten": int64(result.ShardsWritten)},
	})
	imp.collector.RecordStage(ctx, "import", "merge_write", time.Since(writeStart).Milliseconds())

	imp.reporter.Done(ctx, merged)
	imp.collector.RecordOperation(ctx, "import", "success", time.Since(start).Milliseconds())
	imp.collector.SetStorageCount(ctx, "tokens", int64(merged))
	imp.exportTrace(ctx, result, "import", start, "success", "", spans)

	if imp.tracker != nil {
		run := &store.ImportRun{
			ID:            result.RunID,
			Source:        sourcePath,
			SourceHash:    result.SourceHash,
			TokensMerged:  result.TokensMerged,
			ShardsWritten: result.ShardsWritten,
			StartedAt:     start,
			FinishedAt:    time.Now(),
		}
		if err := imp.tracker.RecordRun(ctx, run); err != nil {
			// The shards are already merged; a ledger failure must not
			// undo the run.
			imp.logger.WarnContext(ctx, "failed to record import run", "error", err)
		}
	}

	imp.logger.InfoContext(ctx, "import complete",
		"source", sourcePath,
		"root", imp.store.Root(),
		"tokens_merged", result.TokensMerged,
		"shards_written", result.ShardsWritten,
		"run_id", result.RunID,
	)
	return result, nil
}

// accumulate folds records into per-bigram in-memory documents. Records
// whose normalized token is empty are skipped and not counted.
func (imp *Importer) accumulate(ctx context.Context, records []TokenRecord) (map[string]*shard.Document, int) {
	accum := make(map[string]*shard.Document, len(shard.Bigrams))
	for _, bigram := range shard.Bigrams {
		accum[bigram] = shard.NewDocument()
	}

	merged := 0
	for _, rec := range records {
		token := shard.Normalize(rec.Token)
		if token == "" {
			continue
		}
		_, bigram := shard.BigramBucket(token, imp.fallbackLetter)
		entry := shard.TokenEntry{Relationships: rec.Relationships, CachedAt: rec.CachedAt}
		accum[bigram].Tokens[token] = shard.MergeEntries(accum[bigram].Tokens[token], entry)
		merged++
		imp.reporter.Report(ctx, merged)
	}
	return accum, merged
}

func (imp *Importer) exportTrace(ctx context.Context, result *Result, operation string, start time.Time, status, errType string, spans []trace.SpanRecord) {
	if imp.tracer == nil {
		return
	}
	record := &trace.RunRecord{
		Timestamp:  start.UTC(),
		RunID:      result.RunID,
		Operation:  operation,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
		ErrorType:  errType,
		Spans:      spans,
		Counters: map[string]int64{
			"tokensMerged":  int64(result.TokensMerged),
			"shardsWritten": int64(result.ShardsWritten),
		},
	}
	if err := imp.tracer.Export(ctx, record); err != nil {
		imp.logger.WarnContext(ctx, "failed to export run trace", "error", err)
	}
}

// sourceEnvelope mirrors the export's top level. The token array may live
// under either field; selection order is fixed.
type sourceEnvelope struct {
	FullTokenData []TokenRecord `json:"full_token_data"`
	Tokens        []TokenRecord `json:"tokens"`
}

// tokenFieldOrder is the explicit fallback list for locating the token
// array; the first present non-empty field wins and the rest are ignored.
var tokenFieldOrder = []string{"full_token_data", "tokens"}

func decodeSource(c codec.Codec, data []byte) ([]TokenRecord, error) {
	var envelope sourceEnvelope
	if err := c.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode source export: %w", err)
	}
	for _, field := range tokenFieldOrder {
		switch field {
		case "full_token_data":
			if len(envelope.FullTokenData) > 0 {
				return envelope.FullTokenData, nil
			}
		case "tokens":
			if len(envelope.Tokens) > 0 {
				return envelope.Tokens, nil
			}
		}
	}
	return nil, nil
}
