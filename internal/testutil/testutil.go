// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/storage"
	"github.com/starford/eihwaz/internal/taxonomy"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "eihwaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestDefinition writes schemaJSON to a temp file and loads a taxonomy
// Definition from it.
func TestDefinition(t *testing.T, schemaJSON string) *taxonomy.Definition {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	if err := os.WriteFile(path, []byte(schemaJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return taxonomy.Load(path, nil)
}
