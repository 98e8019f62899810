package tagstore_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// newTestStore configures a store in a fresh temp dir and creates its schema.
func newTestStore(t *testing.T, opts ...tagstore.Option) *tagstore.Store {
	t.Helper()

	s := configureTestStore(t, opts...)

	err := s.CreateSchema(t.Context())
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return s
}

// configureTestStore configures a store without creating it.
func configureTestStore(t *testing.T, opts ...tagstore.Option) *tagstore.Store {
	t.Helper()

	s, err := tagstore.New(filepath.Join(t.TempDir(), "tags.db"), opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	return s
}

// openRaw opens the store file directly, bypassing tagstore.
func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	row := db.QueryRow("SELECT COUNT(*) FROM " + table)

	var count int

	err := row.Scan(&count)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}

	return count
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	row := db.QueryRow(`
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type = 'table' AND name = ?`, name)

	var count int

	err := row.Scan(&count)
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}

	return count > 0
}

func mustAddDir(t *testing.T, s *tagstore.Store, path string) int64 {
	t.Helper()

	id, err := s.AddDir(t.Context(), path)
	if err != nil {
		t.Fatalf("add dir %s: %v", path, err)
	}

	return id
}
