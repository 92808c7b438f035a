package main

import "testing"

func TestDefaultOutputDirMatchesShardTree(t *testing.T) {
	// Chunk output defaults to the shard tree directory, not a separate
	// site directory.
	if defaultOutputDir != "remote-db" {
		t.Errorf("defaultOutputDir = %q, want remote-db", defaultOutputDir)
	}
}
