package tagstore

import (
	"database/sql"
	"strings"
	"testing"
	"time"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE t (n INTEGER, s TEXT)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return db
}

func Test_QueryOne_Leaves_Sinks_At_Zero_When_No_Rows(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	ctx := t.Context()

	var (
		p presence
		i intColumn
		s textColumn
	)

	for _, dst := range []sink{&p, &i, &s} {
		err := queryOne(ctx, db, dst, `SELECT n FROM t`)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
	}

	if p.found || i.found || s.found {
		t.Fatalf("sink marked found: %v %v %v", p.found, i.found, s.found)
	}

	if i.value != 0 || s.value != "" {
		t.Fatalf("sinks written: %d %q", i.value, s.value)
	}
}

func Test_QueryOne_Reads_First_Row_Only_When_Several_Match(t *testing.T) {
	t.Parallel()

	db := openMemory(t)
	ctx := t.Context()

	_, err := db.Exec(`INSERT INTO t (n, s) VALUES (1, 'one'), (2, 'two')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var i intColumn

	err = queryOne(ctx, db, &i, `SELECT n FROM t ORDER BY n`)
	if err != nil {
		t.Fatalf("query int: %v", err)
	}

	if !i.found || i.value != 1 {
		t.Fatalf("int sink = %+v, want 1", i)
	}

	var s textColumn

	err = queryOne(ctx, db, &s, `SELECT s FROM t WHERE n = ?`, 2)
	if err != nil {
		t.Fatalf("query text: %v", err)
	}

	if !s.found || s.value != "two" {
		t.Fatalf("text sink = %+v, want two", s)
	}
}

func Test_QueryOne_Returns_Engine_Error_When_Statement_Invalid(t *testing.T) {
	t.Parallel()

	db := openMemory(t)

	var p presence

	err := queryOne(t.Context(), db, &p, `SELECT * FROM missing`)
	if err == nil {
		t.Fatal("expected error")
	}

	if !IsEngineError(err) {
		t.Fatalf("err = %v, want engine error", err)
	}

	if !strings.Contains(err.Error(), "no such table") {
		t.Fatalf("driver diagnostic missing: %v", err)
	}
}

func Test_SqliteDSN_Escapes_Path_When_Path_Has_Query_Characters(t *testing.T) {
	t.Parallel()

	got := sqliteDSN("/tmp/a?b#c.db", modeReadWrite, 1500*time.Millisecond)
	want := "file:/tmp/a%3Fb%23c.db?_busy_timeout=1500&_foreign_keys=on&mode=rw"

	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}
