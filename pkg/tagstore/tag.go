package tagstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Tag is a tag row.
type Tag struct {
	ID   int64
	Text string
}

// TagExists reports whether tag is recorded.
func (s *Store) TagExists(ctx context.Context, tag string) (bool, error) {
	if tag == "" {
		return false, s.invalid(opTagExists, "tag is empty")
	}

	var found presence

	err := s.do(ctx, opTagExists, tag, func(db *sql.DB) error {
		return queryOne(ctx, db, &found, sqlTagExists, tag)
	})
	if err != nil {
		return false, err
	}

	return found.found, nil
}

// AddTag records tag and returns its id. It fails with [ErrExists] if the
// tag is already recorded.
func (s *Store) AddTag(ctx context.Context, tag string) (int64, error) {
	if tag == "" {
		return 0, s.invalid(opAddTag, "tag is empty")
	}

	var id int64

	err := s.doLocked(ctx, opAddTag, tag, func(db *sql.DB) error {
		var found presence

		err := queryOne(ctx, db, &found, sqlTagExists, tag)
		if err != nil {
			return err
		}

		if found.found {
			return ErrExists
		}

		id, err = insert(ctx, db, sqlTagInsert, tag)

		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// TagID returns the id of tag, or [ErrNotFound].
func (s *Store) TagID(ctx context.Context, tag string) (int64, error) {
	if tag == "" {
		return 0, s.invalid(opTagID, "tag is empty")
	}

	var id intColumn

	err := s.do(ctx, opTagID, tag, func(db *sql.DB) error {
		err := queryOne(ctx, db, &id, sqlTagID, tag)
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

// TagValue returns the text of tag id, or [ErrNotFound].
func (s *Store) TagValue(ctx context.Context, id int64) (string, error) {
	var text textColumn

	err := s.do(ctx, opTagValue, strconv.FormatInt(id, 10), func(db *sql.DB) error {
		err := queryOne(ctx, db, &text, sqlTagValue, id)
		if err != nil {
			return err
		}

		if !text.found {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return text.value, nil
}

// Tags lists all tags ordered by id.
func (s *Store) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag

	err := s.do(ctx, opTags, "", func(db *sql.DB) error {
		return queryRows(ctx, db, sqlTagList, nil, func(rows *sql.Rows) error {
			var t Tag

			err := rows.Scan(&t.ID, &t.Text)
			if err != nil {
				return fmt.Errorf("scan tag: %w", err)
			}

			tags = append(tags, t)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return tags, nil
}
