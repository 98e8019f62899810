package tagstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// sink receives the first row of a query that yields at most one scalar.
// A sink is written only when a row came back; otherwise it keeps its zero
// value. Sinks are created per call and never shared.
type sink interface {
	scan(rows *sql.Rows) error
}

// presence records whether any row was returned.
type presence struct {
	found bool
}

func (p *presence) scan(*sql.Rows) error {
	p.found = true

	return nil
}

// intColumn reads the first column as an integer.
type intColumn struct {
	value int64
	found bool
}

func (c *intColumn) scan(rows *sql.Rows) error {
	err := rows.Scan(&c.value)
	if err != nil {
		return fmt.Errorf("scan integer: %w", err)
	}

	c.found = true

	return nil
}

// textColumn reads the first column as text.
type textColumn struct {
	value string
	found bool
}

func (c *textColumn) scan(rows *sql.Rows) error {
	err := rows.Scan(&c.value)
	if err != nil {
		return fmt.Errorf("scan text: %w", err)
	}

	c.found = true

	return nil
}

// queryOne runs query and hands the first row, if any, to dst.
func queryOne(ctx context.Context, db *sql.DB, dst sink, query string, args ...any) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	defer func() { _ = rows.Close() }()

	if rows.Next() {
		err = dst.scan(rows)
		if err != nil {
			return err
		}
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	return nil
}

// insert runs an INSERT and returns the new row id. Constraint violations are
// mapped to the store's sentinels and keep the driver message as text only, so
// they are not reported by IsEngineError.
func insert(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return 0, fmt.Errorf("%w (%v)", ErrExists, err)
		}

		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return 0, fmt.Errorf("%w (%v)", ErrNotFound, err)
		}

		return 0, fmt.Errorf("insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

// queryRows runs query and calls fn for every row.
func queryRows(ctx context.Context, db *sql.DB, query string, args []any, fn func(rows *sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	defer func() { _ = rows.Close() }()

	for rows.Next() {
		err = fn(rows)
		if err != nil {
			return err
		}
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	return nil
}
