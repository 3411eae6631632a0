package stats

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestRecordAndSummarize(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := s.Record(now); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if err := s.Record(now.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	sum, err := s.Summarize(now)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.Today != 3 {
		t.Errorf("Today = %d, want 3", sum.Today)
	}

	if sum.Total != 4 {
		t.Errorf("Total = %d, want 4", sum.Total)
	}

	if sum.DaysActive != 2 {
		t.Errorf("DaysActive = %d, want 2", sum.DaysActive)
	}
}

func TestRecordPrunesOldEntries(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	if err := s.Record(now.AddDate(0, 0, -45)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// Recording today prunes everything outside the retention window.
	if err := s.Record(now); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	sum, err := s.Summarize(now)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.Total != 1 || sum.DaysActive != 1 {
		t.Errorf("Summary = %+v, want only today's entry", sum)
	}
}

func TestSummarizeEmptyStore(t *testing.T) {
	s := openTestStore(t)

	sum, err := s.Summarize(time.Now())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.Today != 0 || sum.Total != 0 || sum.DaysActive != 0 {
		t.Errorf("Summary = %+v, want zeroes", sum)
	}
}
