package tagstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Dir is a directory row.
type Dir struct {
	ID   int64
	Path string
}

// DirExists reports whether a directory with path is recorded.
func (s *Store) DirExists(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, s.invalid(opDirExists, "path is empty")
	}

	var found presence

	err := s.do(ctx, opDirExists, path, func(db *sql.DB) error {
		return queryOne(ctx, db, &found, sqlDirExists, path)
	})
	if err != nil {
		return false, err
	}

	return found.found, nil
}

// AddDir records a new directory and returns its id. It fails with
// [ErrExists] if path is already recorded.
func (s *Store) AddDir(ctx context.Context, path string) (int64, error) {
	if path == "" {
		return 0, s.invalid(opAddDir, "path is empty")
	}

	var id int64

	err := s.doLocked(ctx, opAddDir, path, func(db *sql.DB) error {
		var found presence

		err := queryOne(ctx, db, &found, sqlDirExists, path)
		if err != nil {
			return err
		}

		if found.found {
			return ErrExists
		}

		id, err = insert(ctx, db, sqlDirInsert, path)

		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// DirID returns the id of the directory recorded under path, or
// [ErrNotFound].
func (s *Store) DirID(ctx context.Context, path string) (int64, error) {
	if path == "" {
		return 0, s.invalid(opDirID, "path is empty")
	}

	var id intColumn

	err := s.do(ctx, opDirID, path, func(db *sql.DB) error {
		err := queryOne(ctx, db, &id, sqlDirID, path)
		if err != nil {
			return err
		}

		if !id.found {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id.value, nil
}

// DirPath returns the path of directory id, or [ErrNotFound].
func (s *Store) DirPath(ctx context.Context, id int64) (string, error) {
	var path textColumn

	err := s.do(ctx, opDirPath, strconv.FormatInt(id, 10), func(db *sql.DB) error {
		err := queryOne(ctx, db, &path, sqlDirPath, id)
		if err != nil {
			return err
		}

		if !path.found {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return path.value, nil
}

// Dirs lists all directories ordered by id.
func (s *Store) Dirs(ctx context.Context) ([]Dir, error) {
	var dirs []Dir

	err := s.do(ctx, opDirs, "", func(db *sql.DB) error {
		return queryRows(ctx, db, sqlDirList, nil, func(rows *sql.Rows) error {
			var d Dir

			err := rows.Scan(&d.ID, &d.Path)
			if err != nil {
				return fmt.Errorf("scan directory: %w", err)
			}

			dirs = append(dirs, d)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}
