package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func sampleResult(id string, startedAt time.Time) *models.RunResult {
	a1 := &models.AttemptRecord{Index: 1, GenerateDuration: 2 * time.Second, GenerationTokens: 1500}
	a1.Report.Add(models.Critical(models.CategorySyntax, "syntax error: unbalanced brackets"))
	a1.Artifact.FunctionName = "parse_config"

	a2 := &models.AttemptRecord{Index: 2, GenerateDuration: 3 * time.Second, GenerationTokens: 1200}
	a2.Report.Add(models.Passed(models.CategorySyntax, "source parses cleanly"))
	a2.Artifact.FunctionName = "parse_config"

	return &models.RunResult{
		ID:            id,
		Task:          "parse a config file",
		Status:        models.RunStatusSuccess,
		BestAttempt:   a2,
		Attempts:      []*models.AttemptRecord{a1, a2},
		TotalDuration: 5 * time.Second,
		TotalTokens:   2700,
		StartedAt:     startedAt,
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveRun(sampleResult("run-1", time.Now())); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	summary, attempts, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if summary.Status != models.RunStatusSuccess {
		t.Errorf("Status = %s, want success", summary.Status)
	}
	if summary.BestAttempt != 2 {
		t.Errorf("BestAttempt = %d, want 2", summary.BestAttempt)
	}
	if summary.AttemptCount != 2 {
		t.Errorf("AttemptCount = %d, want 2", summary.AttemptCount)
	}
	if summary.TotalTokens != 2700 {
		t.Errorf("TotalTokens = %d, want 2700", summary.TotalTokens)
	}

	if len(attempts) != 2 {
		t.Fatalf("len(attempts) = %d, want 2", len(attempts))
	}
	if attempts[0].CriticalCount != 1 {
		t.Errorf("attempt 1 CriticalCount = %d, want 1", attempts[0].CriticalCount)
	}
	if len(attempts[0].Issues) != 1 || attempts[0].Issues[0].Category != models.CategorySyntax {
		t.Errorf("attempt 1 issues not round-tripped: %+v", attempts[0].Issues)
	}
	if attempts[1].FunctionName != "parse_config" {
		t.Errorf("attempt 2 FunctionName = %q", attempts[1].FunctionName)
	}
}

func TestGetRunMissing(t *testing.T) {
	db := openTestDB(t)
	if _, _, err := db.GetRun("nope"); err == nil {
		t.Fatal("GetRun() error = nil, want not-found error")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		r := sampleResult(id, base.Add(time.Duration(i)*time.Minute))
		if err := db.SaveRun(r); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", id, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order = [%s, %s], want newest first", runs[0].ID, runs[1].ID)
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveRun(sampleResult("old", time.Now().Add(-48*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(sampleResult("fresh", time.Now())); err != nil {
		t.Fatal(err)
	}

	n, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns() error = %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d runs, want 1", n)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "fresh" {
		t.Errorf("remaining runs = %+v, want only fresh", runs)
	}
}
