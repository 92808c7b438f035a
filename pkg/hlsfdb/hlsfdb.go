// Package hlsfdb ties the shard store, importer, and runtime loader
// together behind a single configuration surface.
package hlsfdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
	"github.com/hlsf-tools/hlsfdb/pkg/importer"
	"github.com/hlsf-tools/hlsfdb/pkg/loader"
	"github.com/hlsf-tools/hlsfdb/pkg/metrics"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
	"github.com/hlsf-tools/hlsfdb/pkg/store"
	"github.com/hlsf-tools/hlsfdb/pkg/trace"
)

// Config holds configuration for an HLSF shard database.
type Config struct {
	// RemoteRoot is the shard tree root directory. Required.
	RemoteRoot string

	// FallbackLetter substitutes for non-alphabetic bigram positions
	// (default "Z").
	FallbackLetter string

	// TrackerPath, when set, opens a sqlite import ledger at this path.
	TrackerPath string

	// SkipImported makes imports no-ops for already-recorded sources.
	// Requires TrackerPath.
	SkipImported bool

	// Codec selects the JSON codec (default codec.Default).
	Codec codec.Codec

	// Logger receives structured log lines (default slog.Default()).
	Logger *slog.Logger

	// Reporter receives import progress (default no-op).
	Reporter progress.Reporter

	// Collector receives operation metrics (default per build tags).
	Collector metrics.Collector

	// Tracer receives run traces (default no-op).
	Tracer trace.Exporter
}

// DB is the main entry point for working with a shard database.
type DB struct {
	config   Config
	store    *store.ShardStore
	importer *importer.Importer
	loader   *loader.Loader
	tracker  store.RunTracker
}

// New creates a DB instance, opening the import ledger when configured.
func New(cfg Config) (*DB, error) {
	if cfg.RemoteRoot == "" {
		return nil, fmt.Errorf("hlsfdb: RemoteRoot is required")
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

	shardStore := store.NewShardStore(cfg.RemoteRoot, cfg.Codec)

	var tracker store.RunTracker
	if cfg.TrackerPath != "" {
		t, err := store.NewSQLiteRunTracker(cfg.TrackerPath)
		if err != nil {
			return nil, fmt.Errorf("open import ledger: %w", err)
		}
		tracker = t
	}

	imp, err := importer.New(importer.Config{
		Store:          shardStore,
		FallbackLetter: cfg.FallbackLetter,
		Codec:          cfg.Codec,
		Logger:         cfg.Logger,
		Reporter:       cfg.Reporter,
		Collector:      cfg.Collector,
		Tracer:         cfg.Tracer,
		Tracker:        tracker,
		SkipImported:   cfg.SkipImported,
	})
	if err != nil {
		if tracker != nil {
			tracker.Close()
		}
		return nil, err
	}

	ldr := loader.New(loader.Config{
		Store:          shardStore,
		FallbackLetter: cfg.FallbackLetter,
		Logger:         cfg.Logger,
	})

	return &DB{
		config:   cfg,
		store:    shardStore,
		importer: imp,
		loader:   ldr,
		tracker:  tracker,
	}, nil
}

// Store returns the underlying shard store.
func (d *DB) Store() *store.ShardStore { return d.store }

// Importer returns the configured importer.
func (d *DB) Importer() *importer.Importer { return d.importer }

// Loader returns the runtime read-through loader.
func (d *DB) Loader() *loader.Loader { return d.loader }

// Tracker returns the import ledger, or nil when none is configured.
func (d *DB) Tracker() store.RunTracker { return d.tracker }

// EnsureLayout pre-creates the full 26x26 shard layout.
func (d *DB) EnsureLayout(ctx context.Context) error {
	return d.store.EnsureLayout(ctx)
}

// Import merges the export at sourcePath into the shard tree and drops the
// loader's memoized shards so later reads see the merged state.
func (d *DB) Import(ctx context.Context, sourcePath string) (*Result, error) {
	result, err := d.importer.Import(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	if !result.Skipped {
		d.loader.Invalidate()
	}
	return result, nil
}

// AdjacencyForToken returns the stored adjacency entry for token, or an
// empty entry when the token is unknown.
func (d *DB) AdjacencyForToken(ctx context.Context, token string) (TokenEntry, error) {
	return d.loader.AdjacencyForToken(ctx, token)
}

// Close releases the import ledger if one is open.
func (d *DB) Close() error {
	if d.tracker != nil {
		return d.tracker.Close()
	}
	return nil
}
