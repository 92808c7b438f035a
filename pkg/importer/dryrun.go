package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/hlsf-tools/hlsfdb/pkg/shard"
)

// DryRunStats reports how an import would distribute tokens across the
// bigram space without writing anything.
type DryRunStats struct {
	// Tokens is the count of records with a non-empty normalized token.
	Tokens int

	// PopulatedShards is the number of buckets (out of 676) that would
	// receive at least one token.
	PopulatedShards int

	// Counts maps every bigram bucket to its would-be token count,
	// including zeroes.
	Counts map[string]int
}

// DryRun parses the source export and maps every record to its bucket, but
// performs no writes at all.
func (imp *Importer) DryRun(ctx context.Context, sourcePath string) (*DryRunStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source export: %w", err)
	}
	records, err := decodeSource(imp.codec, data)
	if err != nil {
		return nil, err
	}

	stats := &DryRunStats{Counts: make(map[string]int, len(shard.Bigrams))}
	for _, bigram := range shard.Bigrams {
		stats.Counts[bigram] = 0
	}

	for _, rec := range records {
		token := shard.Normalize(rec.Token)
		if token == "" {
			continue
		}
		_, bigram := shard.BigramBucket(token, imp.fallbackLetter)
		stats.Counts[bigram]++
		stats.Tokens++
	}
	for _, count := range stats.Counts {
		if count > 0 {
			stats.PopulatedShards++
		}
	}

	imp.logger.InfoContext(ctx, "dry run complete",
		"tokens", stats.Tokens,
		"populated_shards", fmt.Sprintf("%d/%d", stats.PopulatedShards, len(shard.Bigrams)),
	)
	return stats, nil
}
