package services

import (
	"testing"
	"time"

	"github.com/sdpro1234/skin-disease-ai/internal/database"
)

func openAnalysisDB(t *testing.T, name string) *AnalysisService {
	t.Helper()
	db, err := database.New("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAnalysisService(db)
}

func TestAnalysisService_RecordAndRecent(t *testing.T) {
	svc := openAnalysisDB(t, "analyses")

	a, err := svc.Record("alice", "Possible eczema. Severity: Mild.", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.ID == "" {
		t.Fatal("missing analysis ID")
	}
	if _, err := svc.Record("bob", "Possible acne. Severity: Moderate.", "gemini-2.5-flash"); err != nil {
		t.Fatalf("record: %v", err)
	}

	recent, err := svc.RecentForUser("alice", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent len = %d, want 1 (history must be per-user)", len(recent))
	}
	if recent[0].Summary != "Possible eczema. Severity: Mild." {
		t.Fatalf("unexpected summary: %q", recent[0].Summary)
	}

	none, err := svc.RecentForUser("nobody", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty history, got %d", len(none))
	}
}

func TestAnalysisService_TrimOlderThan(t *testing.T) {
	svc := openAnalysisDB(t, "analysestrim")

	if _, err := svc.Record("alice", "summary", "model"); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Nothing is older than a day yet.
	trimmed, err := svc.TrimOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if trimmed != 0 {
		t.Fatalf("trimmed %d rows, want 0", trimmed)
	}

	// A negative age puts the cutoff in the future and removes everything.
	trimmed, err = svc.TrimOlderThan(-time.Hour)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if trimmed != 1 {
		t.Fatalf("trimmed %d rows, want 1", trimmed)
	}
}
