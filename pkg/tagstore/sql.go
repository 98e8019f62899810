package tagstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// schemaVersion is stamped into PRAGMA user_version by CreateSchema.
const schemaVersion = 1

const (
	modeReadWrite       = "rw"
	modeReadWriteCreate = "rwc"
)

// sqliteDSN builds a URI filename so that paths containing '?' or '#' survive
// and so that regular operations never create a missing database file.
func sqliteDSN(path string, mode string, busyTimeout time.Duration) string {
	u := url.URL{Path: path}

	q := url.Values{}
	q.Set("mode", mode)
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))

	return "file:" + u.EscapedPath() + "?" + q.Encode()
}

// openSQLite opens a single-connection handle on the store file.
func openSQLite(ctx context.Context, path string, mode string, busyTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path, mode, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection per call keeps every statement of an operation on the
	// same SQLite handle.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

func createTables(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`CREATE TABLE directory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE file (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dir INTEGER NOT NULL,
			name TEXT NOT NULL,
			FOREIGN KEY (dir) REFERENCES directory(id)
		)`,
		`CREATE TABLE tag (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tag TEXT UNIQUE NOT NULL
		)`,
	}

	for i, stmt := range statements {
		_, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}

	_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

const (
	sqlDirExists = `SELECT 1 FROM directory WHERE path = ? LIMIT 1`
	sqlDirID     = `SELECT id FROM directory WHERE path = ?`
	sqlDirPath   = `SELECT path FROM directory WHERE id = ?`
	sqlDirInsert = `INSERT INTO directory (path) VALUES (?)`
	sqlDirList   = `SELECT id, path FROM directory ORDER BY id`

	sqlFileExists = `SELECT 1 FROM file WHERE dir = ? AND name = ? LIMIT 1`
	sqlFileID     = `SELECT id FROM file WHERE dir = ? AND name = ? ORDER BY id LIMIT 1`
	sqlFileName   = `SELECT name FROM file WHERE id = ?`
	sqlFileInsert = `INSERT INTO file (dir, name) VALUES (?, ?)`
	sqlFileList   = `SELECT id, dir, name FROM file WHERE dir = ? ORDER BY id`

	sqlTagExists = `SELECT 1 FROM tag WHERE tag = ? LIMIT 1`
	sqlTagID     = `SELECT id FROM tag WHERE tag = ?`
	sqlTagValue  = `SELECT tag FROM tag WHERE id = ?`
	sqlTagInsert = `INSERT INTO tag (tag) VALUES (?)`
	sqlTagList   = `SELECT id, tag FROM tag ORDER BY id`
)
