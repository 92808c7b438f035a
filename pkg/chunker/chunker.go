// Package chunker splits a canonical HLSF database export into
// prefix-keyed JSON chunk files plus the manifest and token index that a
// web consumer fetches alongside them.
package chunker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
	"github.com/hlsf-tools/hlsfdb/pkg/metrics"
	"github.com/hlsf-tools/hlsfdb/pkg/progress"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
	"github.com/hlsf-tools/hlsfdb/pkg/symbols"
)

// DefaultVersion is written to the manifest when the export carries no
// readme version of its own.
const DefaultVersion = "2.1"

// ChunkEntry is one row of the manifest's chunk listing.
type ChunkEntry struct {
	Prefix     string `json:"prefix"`
	Href       string `json:"href"`
	TokenCount int    `json:"token_count"`
}

// Config wires a Chunker; zero values select working defaults.
type Config struct {
	Codec     codec.Codec
	Logger    *slog.Logger
	Reporter  progress.Reporter
	Collector metrics.Collector
}

// Chunker generates the prefix-chunk layout. It performs no merging: chunk
// files are a pure projection of the export.
type Chunker struct {
	codec     codec.Codec
	logger    *slog.Logger
	reporter  progress.Reporter
	collector metrics.Collector
}

// New creates a Chunker with defaults applied.
func New(cfg Config) *Chunker {
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
	return &Chunker{
		codec:     cfg.Codec,
		logger:    cfg.Logger,
		reporter:  cfg.Reporter,
		collector: cfg.Collector,
	}
}

// Process loads the export at sourcePath and emits chunk files, the symbol
// chunk, metadata.json, and token-index.json into outputDir. It returns the
// number of chunk files written, the symbol chunk included.
func (c *Chunker) Process(ctx context.Context, sourcePath, outputDir string) (int, error) {
	start := time.Now()

	data, err := c.loadDatabase(sourcePath)
	if err != nil {
		c.collector.RecordError(ctx, "chunk", metrics.ClassifyError(err))
		c.collector.RecordOperation(ctx, "chunk", "error", time.Since(start).Milliseconds())
		return 0, err
	}
	entries, _ := data["full_token_data"].([]any)

	chunksDir := filepath.Join(outputDir, "chunks")
	if err := removeExistingChunks(chunksDir); err != nil {
		return 0, err
	}

	grouped := make(map[string][]map[string]any)
	for i, raw := range entries {
		entry, _ := raw.(map[string]any)
		if entry == nil {
			entry = map[string]any{}
		}
		token, _ := entry["token"].(string)
		prefix := shard.PrefixForToken(token)
		grouped[prefix] = append(grouped[prefix], entry)
		c.reporter.Report(ctx, i+1)
	}

	chunkEntries, err := c.writeChunkFiles(grouped, chunksDir)
	if err != nil {
		c.collector.RecordError(ctx, "chunk", metrics.ClassifyError(err))
		c.collector.RecordOperation(ctx, "chunk", "error", time.Since(start).Milliseconds())
		return 0, err
	}

	symbolEntry, err := c.writeSymbolChunk(chunksDir)
	if err != nil {
		return 0, err
	}
	chunkEntries = append(chunkEntries, symbolEntry)

	if err := c.writeMetadata(data, chunkEntries, outputDir, filepath.Base(sourcePath)); err != nil {
		return 0, err
	}

	c.reporter.Done(ctx, len(entries))
	c.collector.RecordOperation(ctx, "chunk", "success", time.Since(start).Milliseconds())
	c.collector.SetStorageCount(ctx, "chunks", int64(len(chunkEntries)))

	c.logger.InfoContext(ctx, "chunk generation complete",
		"chunks", len(chunkEntries),
		"dir", chunksDir,
	)
	return len(chunkEntries), nil
}

// loadDatabase reads and validates the export. A missing file or a missing
// full_token_data array is fatal.
func (c *Chunker) loadDatabase(sourcePath string) (map[string]any, error) {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read database export: %w", err)
	}
	var data map[string]any
	if err := c.codec.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode database export: %w", err)
	}
	if entries, _ := data["full_token_data"].([]any); len(entries) == 0 {
		return nil, fmt.Errorf("no token data found in database export")
	}
	return data, nil
}

// removeExistingChunks clears stale chunk files so output is deterministic.
func removeExistingChunks(chunksDir string) error {
	if _, err := os.Stat(chunksDir); os.IsNotExist(err) {
		return os.MkdirAll(chunksDir, 0o755)
	}
	stale, err := filepath.Glob(filepath.Join(chunksDir, "*.json"))
	if err != nil {
		return fmt.Errorf("list stale chunks: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale chunk %s: %w", path, err)
		}
	}
	return nil
}

// writeChunkFiles persists each prefix chunk and returns manifest entries
// in prefix order.
func (c *Chunker) writeChunkFiles(grouped map[string][]map[string]any, chunksDir string) ([]ChunkEntry, error) {
	prefixes := make([]string, 0, len(grouped))
	for prefix := range grouped {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	var chunkEntries []ChunkEntry
	for _, prefix := range prefixes {
		tokens := grouped[prefix]
		sort.SliceStable(tokens, func(i, j int) bool {
			ti, _ := tokens[i]["token"].(string)
			tj, _ := tokens[j]["token"].(string)
			return ti < tj
		})

		chunkData := map[string]any{
			"prefix":      prefix,
			"token_count": len(tokens),
			"tokens":      tokens,
		}
		name := prefix + ".json"
		if err := c.writeJSON(filepath.Join(chunksDir, name), chunkData); err != nil {
			return nil, err
		}
		chunkEntries = append(chunkEntries, ChunkEntry{
			Prefix:     prefix,
			Href:       "chunks/" + name,
			TokenCount: len(tokens),
		})
	}
	return chunkEntries, nil
}

// writeSymbolChunk creates the static chunk for punctuation/symbol tokens.
// Its content comes from the curated symbol list, never from the export.
func (c *Chunker) writeSymbolChunk(chunksDir string) (ChunkEntry, error) {
	list, err := symbols.List(nil)
	if err != nil {
		return ChunkEntry{}, err
	}
	symbolEntries := make([]map[string]any, 0, len(list))
	for _, symbol := range list {
		symbolEntries = append(symbolEntries, map[string]any{"token": symbol, "kind": "sym"})
	}

	name := symbols.Bucket + ".json"
	chunkData := map[string]any{
		"prefix":      symbols.Bucket,
		"token_count": len(symbolEntries),
		"tokens":      symbolEntries,
	}
	if err := c.writeJSON(filepath.Join(chunksDir, name), chunkData); err != nil {
		return ChunkEntry{}, err
	}
	return ChunkEntry{
		Prefix:     symbols.Bucket,
		Href:       "chunks/" + name,
		TokenCount: len(symbolEntries),
	}, nil
}

// manifest is the metadata.json document.
type manifest struct {
	Version            any          `json:"version"`
	GeneratedAt        any          `json:"generated_at"`
	Source             string       `json:"source"`
	TotalTokens        any          `json:"total_tokens"`
	TotalRelationships any          `json:"total_relationships"`
	ChunkPrefixLength  int          `json:"chunk_prefix_length"`
	Chunks             []ChunkEntry `json:"chunks"`
	TokenIndexHref     string       `json:"token_index_href"`
}

// writeMetadata records the chunk manifest and the flat token index. The
// pass-through fields are copied verbatim from the export.
func (c *Chunker) writeMetadata(data map[string]any, chunkEntries []ChunkEntry, outputDir, sourceName string) error {
	readme, _ := data["readme"].(map[string]any)
	stats, _ := data["database_stats"].(map[string]any)

	version := readme["version"]
	if version == nil || version == "" {
		version = DefaultVersion
	}

	m := manifest{
		Version:            version,
		GeneratedAt:        data["export_timestamp"],
		Source:             sourceName,
		TotalTokens:        stats["total_tokens"],
		TotalRelationships: stats["total_relationships"],
		ChunkPrefixLength:  1,
		Chunks:             chunkEntries,
		TokenIndexHref:     "token-index.json",
	}
	if err := c.writeJSON(filepath.Join(outputDir, "metadata.json"), m); err != nil {
		return err
	}

	entries, _ := data["full_token_data"].([]any)
	index := make([]string, 0, len(entries))
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		token, _ := entry["token"].(string)
		index = append(index, token)
	}
	sort.SliceStable(index, func(i, j int) bool {
		return strings.ToLower(index[i]) < strings.ToLower(index[j])
	})

	return c.writeJSON(filepath.Join(outputDir, "token-index.json"), map[string]any{"tokens": index})
}

func (c *Chunker) writeJSON(path string, v any) error {
	data, err := c.codec.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
