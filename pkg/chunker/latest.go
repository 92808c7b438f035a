package chunker

import (
	"fmt"
	"path/filepath"
	"sort"
)

// LatestExport returns the newest HLSF database export in dir. Export
// filenames embed a sortable timestamp, so the lexicographically greatest
// name is the most recent.
func LatestExport(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "HLSF_Database*.json"))
	if err != nil {
		return "", fmt.Errorf("scan for exports: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no HLSF database export found in %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
