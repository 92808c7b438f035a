// Package symbols holds the curated punctuation/symbol metadata shared by
// the chunker. These entries are static: they come from the embedded
// category table, never from token data.
package symbols

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/hlsf-tools/hlsfdb/pkg/codec"
)

// Bucket is the chunk prefix reserved for symbol entries.
const Bucket = "symbols"

//go:embed data/symbols.json
var rawCategories []byte

// categoryOrder fixes iteration order over the embedded table so List stays
// deterministic across runs.
var categoryOrder = []string{
	"punctuation",
	"brackets",
	"math",
	"arrows",
	"logic",
	"currency",
	"typographic",
}

// Categories returns the embedded symbol categories.
func Categories() (map[string][]string, error) {
	var categories map[string][]string
	if err := codec.Default.Unmarshal(rawCategories, &categories); err != nil {
		return nil, fmt.Errorf("decode embedded symbol categories: %w", err)
	}
	return categories, nil
}

// List flattens categories into an ordered, deduplicated symbol list:
// category order first, then the order inside each category. A nil argument
// loads the embedded categories.
func List(categories map[string][]string) ([]string, error) {
	if categories == nil {
		loaded, err := Categories()
		if err != nil {
			return nil, err
		}
		categories = loaded
	}

	seen := make(map[string]struct{})
	var flattened []string
	appendAll := func(category []string) {
		for _, symbol := range category {
			if _, dup := seen[symbol]; dup {
				continue
			}
			seen[symbol] = struct{}{}
			flattened = append(flattened, symbol)
		}
	}

	for _, name := range categoryOrder {
		appendAll(categories[name])
	}
	// Categories outside the known order (caller-supplied) still flatten;
	// sort their names for determinism.
	known := make(map[string]struct{}, len(categoryOrder))
	for _, name := range categoryOrder {
		known[name] = struct{}{}
	}
	var extra []string
	for name := range categories {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		appendAll(categories[name])
	}
	return flattened, nil
}
