package tagstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// File is a file row. Dir is the id of the containing directory.
type File struct {
	ID   int64
	Dir  int64
	Name string
}

func fileKey(dirID int64, name string) string {
	return strconv.FormatInt(dirID, 10) + "/" + name
}

// FileExists reports whether name is recorded inside directory dirID.
func (s *Store) FileExists(ctx context.Context, dirID int64, name string) (bool, error) {
	if name == "" {
		return false, s.invalid(opFileExists, "filename is empty")
	}

	var found presence

	err := s.do(ctx, opFileExists, fileKey(dirID, name), func(db *sql.DB) error {
		return queryOne(ctx, db, &found, sqlFileExists, dirID, name)
	})
	if err != nil {
		return false, err
	}

	return found.found, nil
}

// AddFile records name inside directory dirID and returns the new file id.
// It fails with [ErrExists] if the pair is already recorded and with
// [ErrNotFound] if dirID is not a recorded directory.
//
// The file table carries no (dir, name) uniqueness constraint; the insert
// lock is what keeps concurrent AddFile calls from inserting duplicates.
func (s *Store) AddFile(ctx context.Context, dirID int64, name string) (int64, error) {
	if name == "" {
		return 0, s.invalid(opAddFile, "filename is empty")
	}

	var id int64

	err := s.doLocked(ctx, opAddFile, fileKey(dirID, name), func(db *sql.DB) error {
		var found presence

		err := queryOne(ctx, db, &found, sqlFileExists, dirID, name)
		if err != nil {
			return err
		}

		if found.found {
			return ErrExists
		}

		id, err = insert(ctx, db, sqlFileInsert, dirID, name)

		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// FileID returns the id of name inside directory dirID, or [ErrNotFound].
// Should duplicates exist from writers that bypassed the lock, the oldest row
// wins.
func (s *Store) FileID(ctx context.Context, dirID int64, name string) (int64, error) {
	if name == "" {
		return 0, s.invalid(opFileID, "filename is empty")
	}

	var id intColumn

	err := s.do(ctx, opFileID, fileKey(dirID, name), func(db *sql.DB) error {
		err := queryOne(ctx, db, &id, sqlFileID, dirID, name)
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

// FileName returns the name of file id, or [ErrNotFound].
func (s *Store) FileName(ctx context.Context, id int64) (string, error) {
	var name textColumn

	err := s.do(ctx, opFileName, strconv.FormatInt(id, 10), func(db *sql.DB) error {
		err := queryOne(ctx, db, &name, sqlFileName, id)
		if err != nil {
			return err
		}

		if !name.found {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return name.value, nil
}

// Files lists the files of directory dirID ordered by id. An unknown
// directory yields an empty list.
func (s *Store) Files(ctx context.Context, dirID int64) ([]File, error) {
	var files []File

	err := s.do(ctx, opFiles, strconv.FormatInt(dirID, 10), func(db *sql.DB) error {
		return queryRows(ctx, db, sqlFileList, []any{dirID}, func(rows *sql.Rows) error {
			var f File

			err := rows.Scan(&f.ID, &f.Dir, &f.Name)
			if err != nil {
				return fmt.Errorf("scan file: %w", err)
			}

			files = append(files, f)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
