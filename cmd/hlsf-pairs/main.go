// Command hlsf-pairs distributes a database export into flat letter-pair
// files (AA.json through ZZ.json plus misc.json) with an index.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hlsf-tools/hlsfdb/pkg/pairdist"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		copyMetadata = flag.Bool("copy-metadata", false, "copy the export's descriptive fields to metadata.json")
		logInterval  = flag.Int("log-interval", 0, "log progress every N records (0 disables)")
		logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
		quiet        = flag.Bool("quiet", false, "only log errors")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <export.json> <output-dir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return 2
	}
	input, outputDir := flag.Arg(0), flag.Arg(1)

	logger := newLogger(*logLevel, *quiet)

	var reporter progress.Reporter
	if *logInterval > 0 {
		reporter = progress.NewIntervalReporter(logger, *logInterval)
	}

	d := pairdist.New(pairdist.Config{Logger: logger, Reporter: reporter})
	summary, err := d.Process(context.Background(), input, outputDir, *copyMetadata)
	if err != nil {
		logger.Error("pair distribution failed", "error", err)
		return 1
	}
	fmt.Printf("wrote %d pairs (%d tokens, %d misc) to %s\n",
		summary.TotalPairs, summary.TotalTokens, summary.MiscTokens, outputDir)
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
