package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	firstID, err := s.Record(ctx, Run{
		StartedAt:  base,
		FinishedAt: base.Add(time.Minute),
		State:      "done",
		User:       "alice",
		Fetched:    3,
		New:        2,
		Skipped:    1,
		Pushed:     true,
		Artifacts: []Artifact{
			{ProblemID: "1", Title: "Two Sum", Path: "Easy/0001-two-sum.py", Committed: true},
			{ProblemID: "415", Title: "Add Strings", Path: "Easy/0415-add-strings.cpp", Committed: false},
		},
	})
	if err != nil {
		t.Fatalf("failed to record run: %v", err)
	}
	if firstID == "" {
		t.Error("expected generated run id")
	}

	if _, err := s.Record(ctx, Run{
		ID:         "second",
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour),
		State:      "aborted",
		DryRun:     true,
	}); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	if runs[0].ID != "second" || !runs[0].DryRun || len(runs[0].Artifacts) != 0 {
		t.Errorf("unexpected newest run: %+v", runs[0])
	}

	first := runs[1]
	if first.ID != firstID || first.New != 2 || first.Skipped != 1 || !first.Pushed || first.User != "alice" {
		t.Errorf("unexpected first run: %+v", first)
	}
	if !first.StartedAt.Equal(base) {
		t.Errorf("expected start %v, got %v", base, first.StartedAt)
	}
	if len(first.Artifacts) != 2 || first.Artifacts[0].ProblemID != "1" || !first.Artifacts[0].Committed {
		t.Errorf("unexpected artifacts: %+v", first.Artifacts)
	}
	if first.Artifacts[1].Committed {
		t.Error("expected second artifact to be uncommitted")
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		if _, err := s.Record(ctx, Run{StartedAt: at, FinishedAt: at, State: "done"}); err != nil {
			t.Fatalf("failed to record run: %v", err)
		}
	}

	runs, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("expected newest run first, got %v", runs[0].StartedAt)
	}
}

func TestOpenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	now := time.Now()
	if _, err := s.Record(ctx, Run{StartedAt: now, FinishedAt: now, State: "done"}); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("failed to reopen history: %v", err)
	}
	defer s.Close()

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 persisted run, got %d", len(runs))
	}
}
