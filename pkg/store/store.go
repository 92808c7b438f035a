// Package store persists shard documents on disk and keeps the sqlite
// ledger of import runs.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
	"github.com/hlsf-tools/hlsfdb/pkg/shard"
)

// ShardStore reads and writes per-bucket shard documents under a root
// directory, following the <root>/<A>/<AB>.json layout. Writes go through a
// temporary file and an atomic rename, so a reader never observes a
// partially written shard.
type ShardStore struct {
	root  string
	codec codec.Codec
}

// NewShardStore creates a store rooted at root. A nil codec selects the
// module default.
func NewShardStore(root string, c codec.Codec) *ShardStore {
	if c == nil {
		c = codec.Default
	}
	return &ShardStore{root: root, codec: c}
}

// Root returns the shard root directory.
func (s *ShardStore) Root() string { return s.root }

// ShardPath returns the filesystem path for a bigram shard.
func (s *ShardStore) ShardPath(bigram string) string {
	return filepath.Join(s.root, bigram[:1], bigram+".json")
}

// Load reads the shard document for bigram. A missing file is not an error:
// it yields a freshly initialized empty document.
func (s *ShardStore) Load(ctx context.Context, bigram string) (*shard.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.ShardPath(bigram))
	if os.IsNotExist(err) {
		return shard.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shard %s: %w", bigram, err)
	}

	var doc shard.Document
	if err := s.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode shard %s: %w", bigram, err)
	}
	if doc.Tokens == nil {
		doc.Tokens = make(map[string]shard.TokenEntry)
	}
	return &doc, nil
}

// Persist writes the document for bigram atomically, creating the folder if
// needed.
func (s *ShardStore) Persist(ctx context.Context, bigram string, doc *shard.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.ShardPath(bigram)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create shard folder for %s: %w", bigram, err)
	}

	data, err := s.codec.MarshalIndent(doc)
	if err != nil {
		return fmt.Errorf("encode shard %s: %w", bigram, err)
	}
	return atomicWrite(path, data)
}

// EnsureLayout pre-creates the full 26x26 layout: every bucket folder and,
// for buckets without a file yet, an empty document. Existing shards are
// left untouched.
func (s *ShardStore) EnsureLayout(ctx context.Context) error {
	for _, bigram := range shard.Bigrams {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := s.ShardPath(bigram)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat shard %s: %w", bigram, err)
		}
		if err := s.Persist(ctx, bigram, shard.NewDocument()); err != nil {
			return err
		}
	}
	return nil
}

// atomicWrite writes data to path via a same-directory temp file and rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
