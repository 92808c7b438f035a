package hlsfdb

import (
	"github.com/hlsf-tools/hlsfdb/pkg/families"
	"github.com/hlsf-tools/hlsfdb/pkg/importer"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
	"github.com/hlsf-tools/hlsfdb/pkg/store"
)

// Re-exported domain types so callers only import this package.

// Edge is a weighted neighbor of a token.
type Edge = shard.Edge

// TokenEntry is a token's adjacency record inside a shard.
type TokenEntry = shard.TokenEntry

// Document is a full shard document.
type Document = shard.Document

// Result summarizes an import run.
type Result = importer.Result

// ImportRun is one row of the import ledger.
type ImportRun = store.ImportRun

// AdjacencyFamily is the coarse semantic grouping of relationship kinds.
type AdjacencyFamily = families.AdjacencyFamily

// ClassifyRelation maps a relationship name to its adjacency family.
func ClassifyRelation(relation string) AdjacencyFamily {
	return families.Classify(relation)
}

// DefaultFallbackLetter is the bigram fallback used when none is configured.
const DefaultFallbackLetter = shard.DefaultFallbackLetter
