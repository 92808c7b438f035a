// Package shard defines the HLSF shard document schema, token
// normalization, bucket assignment, and the record merge strategy shared by
// the importer and the runtime loader.
package shard

import (
	"strings"
	"time"
)

// SchemaVersion is the on-disk shard document schema version.
const SchemaVersion = 1

// Edge is a weighted directed link from a token to a neighbor token within
// one relationship category.
type Edge struct {
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
}

// TokenEntry is the stored form of a token's adjacency data. Within each
// relationship list, neighbor tokens are unique and edges are ordered by
// descending weight, then ascending token.
type TokenEntry struct {
	Relationships map[string][]Edge `json:"relationships"`
	CachedAt      string            `json:"cached_at,omitempty"`
}

// Document is a single on-disk shard: one JSON file per bucket.
type Document struct {
	SchemaVersion int                   `json:"schema_version"`
	UpdatedAt     string                `json:"updated_at"`
	Tokens        map[string]TokenEntry `json:"tokens"`
}

// NewDocument returns an empty shard document stamped with the current
// schema version and timestamp.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		UpdatedAt:     NowISO(),
		Tokens:        make(map[string]TokenEntry),
	}
}

// NowISO returns a UTC ISO-8601 timestamp without sub-second precision.
func NowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Normalize trims leading/trailing whitespace and collapses internal runs of
// whitespace to a single space. Case is left untouched; folding happens at
// bucket assignment. Whitespace-only input normalizes to the empty string.
func Normalize(token string) string {
	return strings.Join(strings.Fields(token), " ")
}
