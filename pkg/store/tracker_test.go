package store

import (
	"context"
	"testing"
	"time"
)

func setupTestTracker(t *testing.T) *SQLiteRunTracker {
	t.Helper()
	tracker, err := NewSQLiteRunTracker(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteRunTracker failed: %v", err)
	}
	t.Cleanup(func() { tracker.Close() })
	return tracker
}

func TestTrackerRecordAndLookup(t *testing.T) {
	tracker := setupTestTracker(t)
	ctx := context.Background()

	imported, err := tracker.IsSourceImported(ctx, "hash-1")
	if err != nil {
		t.Fatalf("IsSourceImported failed: %v", err)
	}
	if imported {
		t.Error("empty ledger should report not imported")
	}

	run := &ImportRun{
		Source:        "HLSF_Database.json",
		SourceHash:    "hash-1",
		TokensMerged:  42,
		ShardsWritten: 676,
		StartedAt:     time.Now().Add(-time.Minute),
		FinishedAt:    time.Now(),
	}
	if err := tracker.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("RecordRun should assign a run ID")
	}

	imported, err = tracker.IsSourceImported(ctx, "hash-1")
	if err != nil {
		t.Fatalf("IsSourceImported failed: %v", err)
	}
	if !imported {
		t.Error("recorded hash should report imported")
	}

	count, err := tracker.RunCount(ctx)
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("RunCount = %d, want 1", count)
	}
}

func TestTrackerLastRun(t *testing.T) {
	tracker := setupTestTracker(t)
	ctx := context.Background()

	last, err := tracker.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun failed: %v", err)
	}
	if last != nil {
		t.Fatal("empty ledger should yield nil last run")
	}

	base := time.Now().Add(-time.Hour)
	for i, hash := range []string{"hash-a", "hash-b"} {
		run := &ImportRun{
			SourceHash: hash,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := tracker.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	last, err = tracker.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun failed: %v", err)
	}
	if last == nil || last.SourceHash != "hash-b" {
		t.Errorf("LastRun = %+v, want hash-b", last)
	}
}

func TestTrackerClearRuns(t *testing.T) {
	tracker := setupTestTracker(t)
	ctx := context.Background()

	run := &ImportRun{SourceHash: "hash-1", StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := tracker.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	if err := tracker.ClearRuns(ctx); err != nil {
		t.Fatalf("ClearRuns failed: %v", err)
	}

	count, err := tracker.RunCount(ctx)
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("RunCount = %d after clear, want 0", count)
	}
}

func TestTrackerPersistsAcrossReopen(t *testing.T) {
	dbPath := t.TempDir() + "/runs.db"
	ctx := context.Background()

	tracker, err := NewSQLiteRunTracker(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRunTracker failed: %v", err)
	}
	run := &ImportRun{SourceHash: "hash-persist", StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := tracker.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	tracker.Close()

	reopened, err := NewSQLiteRunTracker(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	imported, err := reopened.IsSourceImported(ctx, "hash-persist")
	if err != nil {
		t.Fatalf("IsSourceImported failed: %v", err)
	}
	if !imported {
		t.Error("ledger should survive reopen")
	}
}
