package shard

import (
	"reflect"
	"testing"
)

func TestMergeEdgeListsMaxWeightAndOrder(t *testing.T) {
	dst := []Edge{{Token: "gamma", Weight: 0.7}, {Token: "beta", Weight: 0.9}}
	src := []Edge{{Token: "gamma", Weight: 0.4}, {Token: "delta", Weight: 0.9}}

	merged := MergeEdgeLists(dst, src)

	want := []Edge{
		{Token: "beta", Weight: 0.9},
		{Token: "delta", Weight: 0.9},
		{Token: "gamma", Weight: 0.7},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged = %v, want %v", merged, want)
	}
}

func TestMergeEdgeListsCommutative(t *testing.T) {
	a := []Edge{{Token: "x", Weight: 0.5}, {Token: "y", Weight: 0.2}}
	b := []Edge{{Token: "y", Weight: 0.8}, {Token: "z", Weight: 0.1}}

	ab := MergeEdgeLists(a, b)
	ba := MergeEdgeLists(b, a)
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge not commutative: %v vs %v", ab, ba)
	}
}

func TestMergeEdgeListsIdempotent(t *testing.T) {
	a := []Edge{{Token: "y", Weight: 0.2}, {Token: "x", Weight: 0.5}}
	once := MergeEdgeLists(a, nil)
	twice := MergeEdgeLists(a, a)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestMergeEdgeListsSkipsEmptyNeighbors(t *testing.T) {
	merged := MergeEdgeLists(
		[]Edge{{Token: "", Weight: 0.9}, {Token: "a", Weight: 0.1}},
		[]Edge{{Token: "", Weight: 0.8}},
	)
	if len(merged) != 1 || merged[0].Token != "a" {
		t.Errorf("empty neighbors should be dropped, got %v", merged)
	}
}

func TestMergeEdgeListsTieBreakAlphabetical(t *testing.T) {
	merged := MergeEdgeLists(
		[]Edge{{Token: "theta", Weight: 0.5}},
		[]Edge{{Token: "eta", Weight: 0.5}},
	)
	if merged[0].Token != "eta" || merged[1].Token != "theta" {
		t.Errorf("ties should order alphabetically, got %v", merged)
	}
}

func TestMergeEntriesUnionsRelationships(t *testing.T) {
	dst := TokenEntry{
		Relationships: map[string][]Edge{
			"rel1": {{Token: "beta", Weight: 0.9}},
		},
		CachedAt: "2025-10-01T00:00:00Z",
	}
	src := TokenEntry{
		Relationships: map[string][]Edge{
			"rel1": {{Token: "beta", Weight: 0.3}, {Token: "gamma", Weight: 0.7}},
			"rel2": {{Token: "eta", Weight: 0.5}},
		},
		CachedAt: "2025-11-16T00:00:00Z",
	}

	merged := MergeEntries(dst, src)

	if len(merged.Relationships) != 2 {
		t.Fatalf("expected 2 relationship types, got %d", len(merged.Relationships))
	}
	rel1 := merged.Relationships["rel1"]
	if len(rel1) != 2 || rel1[0].Token != "beta" || rel1[0].Weight != 0.9 {
		t.Errorf("rel1 merge wrong: %v", rel1)
	}
	if merged.CachedAt != "2025-11-16T00:00:00Z" {
		t.Errorf("CachedAt = %q, want latest timestamp", merged.CachedAt)
	}
}

func TestMergeEntriesEmptyIsIdentity(t *testing.T) {
	x := TokenEntry{
		Relationships: map[string][]Edge{
			"rel1": {{Token: "b", Weight: 0.4}, {Token: "a", Weight: 0.6}},
		},
		CachedAt: "2025-10-01T00:00:00Z",
	}

	merged := MergeEntries(x, TokenEntry{})

	wantRel1 := []Edge{{Token: "a", Weight: 0.6}, {Token: "b", Weight: 0.4}}
	if !reflect.DeepEqual(merged.Relationships["rel1"], wantRel1) {
		t.Errorf("rel1 = %v, want %v", merged.Relationships["rel1"], wantRel1)
	}
	if merged.CachedAt != x.CachedAt {
		t.Errorf("CachedAt = %q, want %q", merged.CachedAt, x.CachedAt)
	}
}

func TestMergeEntriesMissingCachedAt(t *testing.T) {
	merged := MergeEntries(TokenEntry{}, TokenEntry{})
	if merged.CachedAt != "" {
		t.Errorf("CachedAt = %q, want empty", merged.CachedAt)
	}

	merged = MergeEntries(TokenEntry{CachedAt: "2025-01-01T00:00:00Z"}, TokenEntry{})
	if merged.CachedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("present timestamp should survive a missing one, got %q", merged.CachedAt)
	}
}

func TestMergeDocuments(t *testing.T) {
	dst := NewDocument()
	dst.Tokens["alpha"] = TokenEntry{
		Relationships: map[string][]Edge{"rel1": {{Token: "beta", Weight: 0.2}}},
	}

	src := NewDocument()
	src.Tokens["alpha"] = TokenEntry{
		Relationships: map[string][]Edge{"rel1": {{Token: "beta", Weight: 0.8}}},
	}
	src.Tokens["gamma"] = TokenEntry{
		Relationships: map[string][]Edge{"rel2": {{Token: "alpha", Weight: 0.5}}},
	}

	merged := MergeDocuments(dst, src)

	if merged.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", merged.SchemaVersion, SchemaVersion)
	}
	if len(merged.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(merged.Tokens))
	}
	if got := merged.Tokens["alpha"].Relationships["rel1"][0].Weight; got != 0.8 {
		t.Errorf("alpha/rel1 weight = %v, want 0.8", got)
	}
	if _, ok := merged.Tokens["gamma"]; !ok {
		t.Error("gamma missing from merged document")
	}
}

func TestMergeDocumentsNilInputs(t *testing.T) {
	src := NewDocument()
	src.Tokens["alpha"] = TokenEntry{}

	merged := MergeDocuments(nil, src)
	if len(merged.Tokens) != 1 {
		t.Errorf("expected 1 token, got %d", len(merged.Tokens))
	}

	merged = MergeDocuments(nil, nil)
	if len(merged.Tokens) != 0 {
		t.Errorf("expected empty document, got %d tokens", len(merged.Tokens))
	}
}
