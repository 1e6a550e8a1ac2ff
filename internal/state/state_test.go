package state

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-state-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStampsRoundTrip(t *testing.T) {
	db := testDB(t)

	empty, err := db.Stamps("Projects")
	if err != nil {
		t.Fatalf("Stamps: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("fresh db stamps = %v", empty)
	}

	want := map[string]string{"rec1": "2026-01-01T00:00:00.000Z", "rec2": "2026-01-02T00:00:00.000Z"}
	if err := db.ReplaceStamps("Projects", want); err != nil {
		t.Fatalf("ReplaceStamps: %v", err)
	}

	got, err := db.Stamps("Projects")
	if err != nil {
		t.Fatalf("Stamps: %v", err)
	}
	if len(got) != 2 || got["rec1"] != want["rec1"] || got["rec2"] != want["rec2"] {
		t.Errorf("stamps = %v, want %v", got, want)
	}
}

func TestReplaceStamps_DropsStale(t *testing.T) {
	db := testDB(t)

	if err := db.ReplaceStamps("Projects", map[string]string{"old": "x"}); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceStamps("Projects", map[string]string{"new": "y"}); err != nil {
		t.Fatal(err)
	}

	got, err := db.Stamps("Projects")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["old"]; ok {
		t.Error("stale stamp survived replace")
	}
	if got["new"] != "y" {
		t.Errorf("stamps = %v", got)
	}
}

func TestStamps_TablesIsolated(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceStamps("Projects", map[string]string{"p": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceStamps("Journal", map[string]string{"j": "2"}); err != nil {
		t.Fatal(err)
	}

	got, _ := db.Stamps("Journal")
	if len(got) != 1 || got["j"] != "2" {
		t.Errorf("journal stamps = %v", got)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := testDB(t)

	if run, err := db.LastRun(); err != nil || run != nil {
		t.Fatalf("fresh db LastRun = %v, %v", run, err)
	}

	started := time.Now()
	id, err := db.BeginRun("full", started)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	run, err := db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	if run.ID != id || run.Status != RunRunning || run.Mode != "full" {
		t.Errorf("running run = %+v", run)
	}
	if run.FinishedAt != nil {
		t.Error("unfinished run has FinishedAt")
	}

	if err := db.FinishRun(id, started.Add(time.Second), RunFailed, "upstream 429", true); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err = db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != RunFailed || run.Error != "upstream 429" || !run.RateLimited {
		t.Errorf("finished run = %+v", run)
	}
	if run.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}
}

func TestLastRun_PicksLatest(t *testing.T) {
	db := testDB(t)
	base := time.Now()

	id1, _ := db.BeginRun("full", base)
	_ = db.FinishRun(id1, base.Add(time.Second), RunSuccess, "", false)
	id2, _ := db.BeginRun("incremental", base.Add(2*time.Second))
	_ = db.FinishRun(id2, base.Add(3*time.Second), RunSuccess, "", false)

	run, err := db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	if run.ID != id2 || run.Mode != "incremental" {
		t.Errorf("last run = %+v, want id %d", run, id2)
	}
}
