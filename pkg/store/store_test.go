package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hlsf-tools/hlsfdb/pkg/shard"
)

func TestLoadMissingShardReturnsEmptyDocument(t *testing.T) {
	s := NewShardStore(t.TempDir(), nil)

	doc, err := s.Load(context.Background(), "AL")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.SchemaVersion != shard.SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", doc.SchemaVersion, shard.SchemaVersion)
	}
	if len(doc.Tokens) != 0 {
		t.Errorf("expected empty tokens, got %d", len(doc.Tokens))
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	s := NewShardStore(t.TempDir(), nil)
	ctx := context.Background()

	doc := shard.NewDocument()
	doc.Tokens["alpha"] = shard.TokenEntry{
		Relationships: map[string][]shard.Edge{
			"rel1": {{Token: "beta", Weight: 0.9}, {Token: "gamma", Weight: 0.7}},
		},
		CachedAt: "2025-11-16T00:00:00Z",
	}

	if err := s.Persist(ctx, "AL", doc); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := s.Load(ctx, "AL")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Tokens, doc.Tokens) {
		t.Errorf("tokens round-trip mismatch:\n%+v\nvs\n%+v", loaded.Tokens, doc.Tokens)
	}
}

func TestPersistLeavesNoTempFile(t *testing.T) {
	root := t.TempDir()
	s := NewShardStore(root, nil)

	if err := s.Persist(context.Background(), "AL", shard.NewDocument()); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "A", "AL.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should be gone after rename")
	}
	if _, err := os.Stat(filepath.Join(root, "A", "AL.json")); err != nil {
		t.Errorf("shard file missing: %v", err)
	}
}

func TestEnsureLayoutCreatesAllBuckets(t *testing.T) {
	root := t.TempDir()
	s := NewShardStore(root, nil)
	ctx := context.Background()

	if err := s.EnsureLayout(ctx); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}

	for _, bigram := range []string{"AA", "MN", "ZZ"} {
		if _, err := os.Stat(s.ShardPath(bigram)); err != nil {
			t.Errorf("bucket %s missing: %v", bigram, err)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 26 {
		t.Errorf("expected 26 folders, got %d", len(entries))
	}
}

func TestEnsureLayoutPreservesExistingShards(t *testing.T) {
	s := NewShardStore(t.TempDir(), nil)
	ctx := context.Background()

	doc := shard.NewDocument()
	doc.Tokens["alpha"] = shard.TokenEntry{}
	if err := s.Persist(ctx, "AL", doc); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if err := s.EnsureLayout(ctx); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}

	loaded, err := s.Load(ctx, "AL")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := loaded.Tokens["alpha"]; !ok {
		t.Error("EnsureLayout overwrote a populated shard")
	}
}

func TestLoadRejectsMalformedShard(t *testing.T) {
	root := t.TempDir()
	s := NewShardStore(root, nil)

	if err := os.MkdirAll(filepath.Join(root, "A"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "A", "AL.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := s.Load(context.Background(), "AL"); err == nil {
		t.Error("expected decode error for malformed shard")
	}
}
