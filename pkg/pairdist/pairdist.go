// Package pairdist distributes a database export into flat letter-pair
// files (AA.json through ZZ.json plus misc.json). Unlike the bigram shard
// tree, pair assignment folds accents down to ASCII first, so "émile" lands
// in EM rather than a fallback bucket.
package pairdist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
	"github.com/hlsf-tools/hlsfdb/pkg/metrics"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
)

// MiscName is the file that collects tokens with no foldable letters.
const MiscName = "misc"

// Config wires a Distributor; zero values select working defaults.
type Config struct {
	Codec     codec.Codec
	Logger    *slog.Logger
	Reporter  progress.Reporter
	Collector metrics.Collector
}

// Distributor writes the letter-pair layout.
type Distributor struct {
	codec     codec.Codec
	logger    *slog.Logger
	reporter  progress.Reporter
	collector metrics.Collector
}

// Summary reports what a distribution run produced. TotalPairs covers the
// full 26x26 pair space, not just populated pairs.
type Summary struct {
	TotalPairs  int
	TotalTokens int
	MiscTokens  int
}

// New creates a Distributor with defaults applied.
func New(cfg Config) *Distributor {
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
	return &Distributor{
		codec:     cfg.Codec,
		logger:    cfg.Logger,
		reporter:  cfg.Reporter,
		collector: cfg.Collector,
	}
}

// PairForToken derives the letter pair for token. The token is decomposed
// with NFKD and only ASCII letters survive the fold, uppercased. A single
// surviving letter is doubled ("a" becomes AA); no letters at all means the
// token belongs in misc and ok is false.
func PairForToken(token string) (pair string, ok bool) {
	var letters []rune
	for _, r := range norm.NFKD.String(token) {
		if r < 128 && unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 2 {
				break
			}
		}
	}
	switch len(letters) {
	case 0:
		return "", false
	case 1:
		return string([]rune{letters[0], letters[0]}), true
	default:
		return string(letters), true
	}
}

// Process reads the export at inputPath and writes every pair file AA.json
// through ZZ.json into outputDir (empty pairs included), plus index.json.
// When copyMetadata is set the export's descriptive fields are copied to
// metadata.json as well.
func (d *Distributor) Process(ctx context.Context, inputPath, outputDir string, copyMetadata bool) (*Summary, error) {
	start := time.Now()

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read database export: %w", err)
	}
	var data map[string]any
	if err := d.codec.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode database export: %w", err)
	}
	entries, _ := data["full_token_data"].([]any)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no token data found in database export")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Every pair of the 26x26 space gets a bucket up front; empty pairs
	// still produce a file and an index count.
	grouped := make(map[string][]map[string]any, len(shard.Bigrams))
	for _, pair := range shard.Bigrams {
		grouped[pair] = []map[string]any{}
	}
	var misc []map[string]any
	for i, rawEntry := range entries {
		entry, _ := rawEntry.(map[string]any)
		if entry == nil {
			entry = map[string]any{}
		}
		token, _ := entry["token"].(string)
		if pair, ok := PairForToken(token); ok {
			grouped[pair] = append(grouped[pair], entry)
		} else {
			misc = append(misc, entry)
		}
		d.reporter.Report(ctx, i+1)
	}

	pairCounts := make(map[string]int, len(grouped))
	for pair, tokens := range grouped {
		sortByToken(tokens)
		doc := map[string]any{
			"pair":   pair,
			"tokens": tokens,
		}
		if err := d.writeJSON(filepath.Join(outputDir, pair+".json"), doc); err != nil {
			return nil, err
		}
		pairCounts[pair] = len(tokens)
	}

	if len(misc) > 0 {
		sortByToken(misc)
		doc := map[string]any{
			"pair":   nil,
			"tokens": misc,
		}
		if err := d.writeJSON(filepath.Join(outputDir, MiscName+".json"), doc); err != nil {
			return nil, err
		}
	}

	index := map[string]any{
		"total_pairs":  len(grouped),
		"total_tokens": len(entries),
		"pairs":        pairCounts,
	}
	if len(misc) > 0 {
		index["misc"] = len(misc)
	}
	if err := d.writeJSON(filepath.Join(outputDir, "index.json"), index); err != nil {
		return nil, err
	}

	if copyMetadata {
		if err := d.copyMetadata(data, outputDir); err != nil {
			return nil, err
		}
	}

	d.reporter.Done(ctx, len(entries))
	d.collector.RecordOperation(ctx, "pair_distribute", "success", time.Since(start).Milliseconds())
	d.collector.SetStorageCount(ctx, "pairs", int64(len(grouped)))

	d.logger.InfoContext(ctx, "pair distribution complete",
		"pairs", len(grouped),
		"tokens", len(entries),
		"misc", len(misc),
	)
	return &Summary{
		TotalPairs:  len(grouped),
		TotalTokens: len(entries),
		MiscTokens:  len(misc),
	}, nil
}

// copyMetadata carries the export's descriptive fields forward so the pair
// layout is self-describing. Absent fields are simply omitted.
func (d *Distributor) copyMetadata(data map[string]any, outputDir string) error {
	meta := map[string]any{}
	for _, key := range []string{"export_timestamp", "readme", "database_stats", "knowledge_graph_metrics"} {
		if v, ok := data[key]; ok {
			meta[key] = v
		}
	}
	return d.writeJSON(filepath.Join(outputDir, "metadata.json"), meta)
}

func sortByToken(tokens []map[string]any) {
	sort.SliceStable(tokens, func(i, j int) bool {
		ti, _ := tokens[i]["token"].(string)
		tj, _ := tokens[j]["token"].(string)
		return strings.ToLower(ti) < strings.ToLower(tj)
	})
}

func (d *Distributor) writeJSON(path string, v any) error {
	data, err := d.codec.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
