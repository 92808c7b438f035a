package families

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		relation string
		want     AdjacencyFamily
	}{
		{"proximity", Spatial},
		{"adjacency:base", Spatial},
		{"adjacency:layer:3", Spatial},
		{"adjacency:layer:99", Spatial}, // prefix rule beyond the listed layers
		{"adjacency:custom", Spatial},
		{"∼", Spatial},
		{"before", Temporal},
		{"after", Temporal},
		{"cause", Causal},
		{"⇄", Causal},
		{"⇝", Causal},
		{"↼", Causal},
		{"seed-expansion", Operational},
		{"modifier:emphasis", Communicative},
		{"modifier:anything", Communicative},
		{"self:symbol", Aesthetic},
		{"  Proximity  ", Spatial}, // trimmed and lowercased
		{"BEFORE", Temporal},
		{"", Aesthetic},
		{"made-up-relation", Aesthetic},
	}
	for _, tt := range tests {
		if got := Classify(tt.relation); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.relation, got, tt.want)
		}
	}
}
