// Command hlsf-partition merges an HLSF database export into the bigram
// shard tree, with optional layout initialization, dry runs, and a sqlite
// ledger for skipping already-imported exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hlsf-tools/hlsfdb/pkg/hlsfdb"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		source       = flag.String("source", getenv("HLSF_SOURCE_JSON", "HLSF_Database.json"), "database export JSON to import")
		remoteDB     = flag.String("remote-db", getenv("HLSF_REMOTE_DB", "remote-db"), "shard tree root directory")
		localCache   = flag.String("local-cache", getenv("HLSF_LOCAL_CACHE", ""), "optional second shard root kept in sync")
		fallback     = flag.String("fallback-letter", "Z", "bucket letter for non-alphabetic bigram positions")
		initLayout   = flag.Bool("init-layout", false, "create the empty 26x26 layout and exit")
		dryRun       = flag.Bool("dry-run", false, "report bucket counts without writing any shard")
		trackDB      = flag.String("track-db", "", "sqlite import ledger path")
		skipImported = flag.Bool("skip-imported", false, "skip sources already recorded in the ledger (needs -track-db)")
		logInterval  = flag.Int("log-interval", 0, "log progress every N records (0 disables)")
		logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
		quiet        = flag.Bool("quiet", false, "only log errors")
	)
	flag.Parse()

	logger := newLogger(*logLevel, *quiet)
	ctx := context.Background()

	roots := []string{*remoteDB}
	if *localCache != "" {
		roots = append(roots, *localCache)
	}

	if *initLayout {
		for _, root := range roots {
			db, err := hlsfdb.New(hlsfdb.Config{RemoteRoot: root, FallbackLetter: *fallback, Logger: logger})
			if err != nil {
				logger.Error("open shard root", "root", root, "error", err)
				return 1
			}
			if err := db.EnsureLayout(ctx); err != nil {
				logger.Error("initialize layout", "root", root, "error", err)
				return 1
			}
			logger.Info("layout initialized", "root", root)
		}
		return 0
	}

	if _, err := os.Stat(*source); err != nil {
		fmt.Fprintf(os.Stderr, "hlsf-partition: source export %s not found (use -source or HLSF_SOURCE_JSON)\n", *source)
		return 2
	}
	if *skipImported && *trackDB == "" {
		fmt.Fprintln(os.Stderr, "hlsf-partition: -skip-imported requires -track-db")
		return 2
	}

	var reporter progress.Reporter
	if *logInterval > 0 {
		reporter = progress.NewIntervalReporter(logger, *logInterval)
	}

	for i, root := range roots {
		// The ledger follows the primary root only; a cache root synced in
		// the same invocation shares its verdict.
		trackPath := ""
		if i == 0 {
			trackPath = *trackDB
		}
		db, err := hlsfdb.New(hlsfdb.Config{
			RemoteRoot:     root,
			FallbackLetter: *fallback,
			TrackerPath:    trackPath,
			SkipImported:   *skipImported && i == 0,
			Logger:         logger,
			Reporter:       reporter,
		})
		if err != nil {
			logger.Error("open shard root", "root", root, "error", err)
			return 1
		}

		if *dryRun {
			stats, err := db.Importer().DryRun(ctx, *source)
			db.Close()
			if err != nil {
				logger.Error("dry run failed", "error", err)
				return 1
			}
			fmt.Printf("dry run: %d tokens across %d populated shards (root %s untouched)\n",
				stats.Tokens, stats.PopulatedShards, root)
			continue
		}

		result, err := db.Import(ctx, *source)
		db.Close()
		if err != nil {
			logger.Error("import failed", "root", root, "error", err)
			return 1
		}
		if result.Skipped {
			logger.Info("source already imported, skipping", "hash", result.SourceHash)
			break
		}
		logger.Info("import complete",
			"root", root,
			"run_id", result.RunID,
			"tokens_merged", result.TokensMerged,
			"shards_written", result.ShardsWritten,
		)
	}
	return 0
}

func newLogger(level string, quiet bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if quiet {
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
