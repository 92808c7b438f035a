package shard

import "sort"

// MergeEdgeLists merges two adjacency lists keyed by neighbor token, keeping
// the maximum weight when a neighbor appears in both inputs. Edges with an
// empty neighbor token are skipped. The result is ordered by descending
// weight, then ascending token on ties, so repeated merges are byte-stable.
func MergeEdgeLists(dst, src []Edge) []Edge {
	byToken := make(map[string]float64, len(dst)+len(src))
	for _, e := range dst {
		if e.Token == "" {
			continue
		}
		// Intra-list duplicates: last write wins on the seed side.
		byToken[e.Token] = e.Weight
	}
	for _, e := range src {
		if e.Token == "" {
			continue
		}
		if w, ok := byToken[e.Token]; ok {
			if e.Weight > w {
				byToken[e.Token] = e.Weight
			}
		} else {
			byToken[e.Token] = e.Weight
		}
	}

	merged := make([]Edge, 0, len(byToken))
	for token, weight := range byToken {
		merged = append(merged, Edge{Token: token, Weight: weight})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Weight != merged[j].Weight {
			return merged[i].Weight > merged[j].Weight
		}
		return merged[i].Token < merged[j].Token
	})
	return merged
}

// MergeEntries combines two token entries: union of relationship names,
// max-weight edge dedup per relationship, and the latest non-empty CachedAt.
// Either input may be the zero value. The function is commutative and
// idempotent over relationship/weight/CachedAt content.
func MergeEntries(dst, src TokenEntry) TokenEntry {
	out := TokenEntry{Relationships: make(map[string][]Edge, len(dst.Relationships)+len(src.Relationships))}
	for name, edges := range dst.Relationships {
		out.Relationships[name] = MergeEdgeLists(edges, src.Relationships[name])
	}
	for name, edges := range src.Relationships {
		if _, done := dst.Relationships[name]; done {
			continue
		}
		out.Relationships[name] = MergeEdgeLists(nil, edges)
	}
	out.CachedAt = latestTimestamp(dst.CachedAt, src.CachedAt)
	return out
}

// MergeDocuments combines two shard documents into a freshly stamped one.
// Nil inputs are treated as empty shards.
func MergeDocuments(dst, src *Document) *Document {
	merged := NewDocument()
	if dst != nil {
		for token, entry := range dst.Tokens {
			var other TokenEntry
			if src != nil {
				other = src.Tokens[token]
			}
			merged.Tokens[token] = MergeEntries(entry, other)
		}
	}
	if src != nil {
		for token, entry := range src.Tokens {
			if dst != nil {
				if _, done := dst.Tokens[token]; done {
					continue
				}
			}
			merged.Tokens[token] = MergeEntries(entry, TokenEntry{})
		}
	}
	return merged
}

// latestTimestamp returns the greater of two ISO-8601 timestamps; empty
// strings are missing values, never "older".
func latestTimestamp(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a >= b {
		return a
	}
	return b
}
