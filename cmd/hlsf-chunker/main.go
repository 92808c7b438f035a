// Command hlsf-chunker splits a database export into single-letter prefix
// chunks plus the manifest and token index used by static consumers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hlsf-tools/hlsfdb/pkg/chunker"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
)

// defaultOutputDir matches where the partition tooling keeps the shard
// tree, so chunks land beside the shards unless redirected.
const defaultOutputDir = "remote-db"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		source      = flag.String("source", getenv("HLSF_SOURCE_JSON", ""), "database export JSON to chunk")
		latest      = flag.Bool("latest", false, "ignore -source and pick the newest HLSF_Database*.json in -dir")
		dir         = flag.String("dir", ".", "directory scanned by -latest")
		outputDir   = flag.String("output-dir", defaultOutputDir, "directory receiving chunks/ and the manifest")
		logInterval = flag.Int("log-interval", 0, "log progress every N records (0 disables)")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
		quiet       = flag.Bool("quiet", false, "only log errors")
	)
	flag.Parse()

	logger := newLogger(*logLevel, *quiet)
	ctx := context.Background()

	path := *source
	if *latest {
		found, err := chunker.LatestExport(*dir)
		if err != nil {
			logger.Error("locate latest export", "dir", *dir, "error", err)
			return 1
		}
		path = found
		logger.Info("using latest export", "source", path)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "hlsf-chunker: no source export given (use -source, -latest, or HLSF_SOURCE_JSON)")
		flag.Usage()
		return 2
	}

	var reporter progress.Reporter
	if *logInterval > 0 {
		reporter = progress.NewIntervalReporter(logger, *logInterval)
	}

	c := chunker.New(chunker.Config{Logger: logger, Reporter: reporter})
	count, err := c.Process(ctx, path, *outputDir)
	if err != nil {
		logger.Error("chunk generation failed", "error", err)
		return 1
	}
	fmt.Printf("wrote %d chunks to %s\n", count, *outputDir)
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
