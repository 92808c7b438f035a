// Package families classifies relationship names into adjacency families,
// the coarse semantic grouping shared by exporters and tooling.
package families

import "strings"

// AdjacencyFamily is a coarse semantic grouping of relationship kinds.
type AdjacencyFamily string

const (
	Spatial        AdjacencyFamily = "spatial"
	Temporal       AdjacencyFamily = "temporal"
	Causal         AdjacencyFamily = "causal"
	Hierarchical   AdjacencyFamily = "hierarchical"
	Analogical     AdjacencyFamily = "analogical"
	Constraint     AdjacencyFamily = "constraint"
	Value          AdjacencyFamily = "value"
	Communicative  AdjacencyFamily = "communicative"
	Social         AdjacencyFamily = "social"
	Modal          AdjacencyFamily = "modal"
	Evidential     AdjacencyFamily = "evidential"
	Counterfactual AdjacencyFamily = "counterfactual"
	Operational    AdjacencyFamily = "operational"
	Measurement    AdjacencyFamily = "measurement"
	Aesthetic      AdjacencyFamily = "aesthetic"
)

// relationFamilies maps exact relationship names to their family.
var relationFamilies = map[string]AdjacencyFamily{
	"proximity":               Spatial,
	"containment":             Spatial,
	"overlap":                 Spatial,
	"path":                    Spatial,
	"barrier":                 Spatial,
	"adjacency:base":          Spatial,
	"adjacency:cached":        Spatial,
	"adjacency:cached-bridge": Spatial,
	"adjacency:layer:1":       Spatial,
	"adjacency:layer:2":       Spatial,
	"adjacency:layer:3":       Spatial,
	"adjacency:layer:4":       Spatial,
	"adjacency:layer:5":       Spatial,
	"before":                  Temporal,
	"after":                   Temporal,
	"during":                  Temporal,
	"recurrence":              Temporal,
	"cause":                   Causal,
	"effect":                  Causal,
	"enablement":              Causal,
	"inhibition":              Causal,
	"⇄":                       Causal,
	"⇝":                       Causal,
	"↼":                       Causal,
	"seed-expansion":          Operational,
	"modifier:emphasis":       Communicative,
	"modifier:query":          Communicative,
	"modifier:left":           Communicative,
	"modifier:right":          Communicative,
	"modifier:close":          Communicative,
	"modifier:other":          Communicative,
	"self:symbol":             Aesthetic,
}

// Classify maps a relationship name to its adjacency family. Names are
// trimmed and lowercased first; unknown adjacency: and modifier: prefixes
// still classify by prefix, and everything unrecognized lands in Aesthetic.
func Classify(relation string) AdjacencyFamily {
	normalized := strings.ToLower(strings.TrimSpace(relation))
	if normalized == "" {
		return Aesthetic
	}
	if family, ok := relationFamilies[normalized]; ok {
		return family
	}
	if strings.HasPrefix(normalized, "adjacency:") {
		return Spatial
	}
	if strings.HasPrefix(normalized, "modifier:") {
		return Communicative
	}
	if normalized == "∼" {
		return Spatial
	}
	return Aesthetic
}
