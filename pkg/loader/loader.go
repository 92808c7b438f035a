// Package loader serves token adjacency at runtime with read-through
// caching over the shard tree. It never writes: a missing or empty shard
// means the token simply has no stored neighbors.
package loader

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/hlsf-tools/hlsfdb/pkg/shard"
	"github.com/hlsf-tools/hlsfdb/pkg/store"
)

// tokenPattern extracts the leading word from free-form input: a letter
// followed by letters, digits, underscores, hyphens, or spaces.
var tokenPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_\- ]*`)

// Loader memoizes shard documents per bigram so repeated lookups for
// nearby tokens hit disk once. Safe for concurrent use.
type Loader struct {
	store          *store.ShardStore
	fallbackLetter string
	logger         *slog.Logger

	mu    sync.Mutex
	cache map[string]*shard.Document
}

// Config wires a Loader.
type Config struct {
	Store          *store.ShardStore
	FallbackLetter string
	Logger         *slog.Logger
}

// New creates a Loader with defaults applied. Store is required.
func New(cfg Config) *Loader {
	if cfg.FallbackLetter == "" {
		cfg.FallbackLetter = shard.DefaultFallbackLetter
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loader{
		store:          cfg.Store,
		fallbackLetter: cfg.FallbackLetter,
		logger:         cfg.Logger,
		cache:          make(map[string]*shard.Document),
	}
}

// FirstToken extracts the leading word from input, or "" when input starts
// with nothing word-like.
func FirstToken(input string) string {
	match := tokenPattern.FindString(input)
	return strings.TrimSpace(match)
}

// AdjacencyForToken returns the stored entry for token, loading its shard
// on first access. An unknown token yields an empty entry, never an error.
func (l *Loader) AdjacencyForToken(ctx context.Context, token string) (shard.TokenEntry, error) {
	normalized := shard.Normalize(token)
	if normalized == "" {
		return emptyEntry(), nil
	}

	_, bigram := shard.BigramBucket(normalized, l.fallbackLetter)
	doc, err := l.document(ctx, bigram)
	if err != nil {
		return shard.TokenEntry{}, err
	}
	if entry, ok := doc.Tokens[normalized]; ok {
		if entry.Relationships == nil {
			entry.Relationships = make(map[string][]shard.Edge)
		}
		return entry, nil
	}
	return emptyEntry(), nil
}

// PreloadForInput warms the cache with the shard that the first token of
// input resolves to. A wordless input is a no-op.
func (l *Loader) PreloadForInput(ctx context.Context, input string) error {
	token := FirstToken(input)
	if token == "" {
		return nil
	}
	_, bigram := shard.BigramBucket(token, l.fallbackLetter)
	_, err := l.document(ctx, bigram)
	return err
}

// Cached reports whether the shard for bigram is already memoized.
func (l *Loader) Cached(bigram string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[bigram]
	return ok
}

// Invalidate drops all memoized shards, forcing fresh reads. Call after an
// import rewrites the tree underneath a long-lived loader.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*shard.Document)
}

func (l *Loader) document(ctx context.Context, bigram string) (*shard.Document, error) {
	l.mu.Lock()
	if doc, ok := l.cache[bigram]; ok {
		l.mu.Unlock()
		return doc, nil
	}
	l.mu.Unlock()

	doc, err := l.store.Load(ctx, bigram)
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "shard loaded", "bigram", bigram, "tokens", len(doc.Tokens))

	l.mu.Lock()
	l.cache[bigram] = doc
	l.mu.Unlock()
	return doc, nil
}

func emptyEntry() shard.TokenEntry {
	return shard.TokenEntry{Relationships: make(map[string][]shard.Edge)}
}
