// Package testutil provides shared test helpers for setting up artifact
// stores and sync-state databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/folio/internal/state"
	"github.com/starford/folio/internal/storage"
)

// TestDB creates a temporary sync-state database that is automatically
// cleaned up.
func TestDB(t *testing.T) *state.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := state.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestArtifacts creates a temporary artifact directory with an FS store.
func TestArtifacts(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
