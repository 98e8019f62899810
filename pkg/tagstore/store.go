package tagstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Operation names used in errors, logs and metrics.
const (
	opCreateSchema  = "create_schema"
	opSchemaVersion = "schema_version"
	opDirExists     = "dir_exists"
	opAddDir        = "add_dir"
	opDirID         = "dir_id"
	opDirPath       = "dir_path"
	opDirs          = "dirs"
	opFileExists    = "file_exists"
	opAddFile       = "add_file"
	opFileID        = "file_id"
	opFileName      = "file_name"
	opFiles         = "files"
	opTagExists     = "tag_exists"
	opAddTag        = "add_tag"
	opTagID         = "tag_id"
	opTagValue      = "tag_value"
	opTags          = "tags"
)

// Store is a configured backing-store location. It holds no connection; each
// method opens and closes its own. A Store is safe for concurrent use.
type Store struct {
	path    string
	opts    options
	metrics *metrics
}

// New configures a store at path. It does not touch the filesystem; call
// [Store.CreateSchema] to create a new store.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: path is empty", ErrInvalidInput)}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m, err := newMetrics(o.registerer)
	if err != nil {
		return nil, &Error{Op: "new", Key: path, Err: err}
	}

	return &Store{
		path:    filepath.Clean(path),
		opts:    o,
		metrics: m,
	}, nil
}

// Path returns the configured backing-store location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a backing-store file is present at [Store.Path].
func (s *Store) Exists() (bool, error) {
	return fileExists(s.path)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat store: %w", err)
}

// CreateSchema creates a new backing store with the directory, file and tag
// tables. It fails with [ErrStoreExists] if any file is already present at the
// configured path, leaving that file untouched. If creation fails midway the
// newly created file is removed again.
func (s *Store) CreateSchema(ctx context.Context) error {
	start := time.Now()

	if ctx == nil {
		return s.observe(opCreateSchema, "", start, errNilContext)
	}

	// Checked again under the lock. Failing here keeps a foreign file from
	// gaining a lock file next to it.
	exists, err := fileExists(s.path)
	if err != nil {
		return s.observe(opCreateSchema, "", start, err)
	}

	if exists {
		return s.observe(opCreateSchema, "", start, ErrStoreExists)
	}

	lock, err := acquireLock(ctx, lockPath(s.path), s.opts.lockTimeout)
	if err != nil {
		return s.observe(opCreateSchema, "", start, err)
	}

	defer func() { _ = lock.Close() }()

	return s.observe(opCreateSchema, "", start, s.createSchema(ctx))
}

func (s *Store) createSchema(ctx context.Context) error {
	exists, err := fileExists(s.path)
	if err != nil {
		return err
	}

	if exists {
		return ErrStoreExists
	}

	db, err := openSQLite(ctx, s.path, modeReadWriteCreate, s.opts.busyTimeout)
	if err != nil {
		_ = os.Remove(s.path)

		return err
	}

	err = inTx(ctx, db, func(tx *sql.Tx) error {
		return createTables(ctx, tx)
	})

	closeErr := db.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("close sqlite: %w", closeErr)
	}

	if err != nil {
		_ = os.Remove(s.path)

		return err
	}

	return nil
}

// SchemaVersion returns the schema version stamped by [Store.CreateSchema].
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version intColumn

	err := s.do(ctx, opSchemaVersion, "", func(db *sql.DB) error {
		return queryOne(ctx, db, &version, "PRAGMA user_version")
	})
	if err != nil {
		return 0, err
	}

	return int(version.value), nil
}

var errNilContext = errors.New("context is nil")

// do runs fn against a fresh connection on an existing store.
func (s *Store) do(ctx context.Context, op string, key string, fn func(db *sql.DB) error) error {
	start := time.Now()

	if ctx == nil {
		return s.observe(op, key, start, errNilContext)
	}

	return s.observe(op, key, start, s.withConn(ctx, fn))
}

// doLocked is do with the insert lock held around the connection.
func (s *Store) doLocked(ctx context.Context, op string, key string, fn func(db *sql.DB) error) error {
	start := time.Now()

	if ctx == nil {
		return s.observe(op, key, start, errNilContext)
	}

	exists, err := fileExists(s.path)
	if err != nil {
		return s.observe(op, key, start, err)
	}

	if !exists {
		return s.observe(op, key, start, ErrStoreMissing)
	}

	lock, err := acquireLock(ctx, lockPath(s.path), s.opts.lockTimeout)
	if err != nil {
		return s.observe(op, key, start, err)
	}

	err = s.withConn(ctx, fn)

	unlockErr := lock.Close()
	if err == nil && unlockErr != nil {
		err = unlockErr
	}

	return s.observe(op, key, start, err)
}

func (s *Store) withConn(ctx context.Context, fn func(db *sql.DB) error) error {
	exists, err := fileExists(s.path)
	if err != nil {
		return err
	}

	if !exists {
		return ErrStoreMissing
	}

	db, err := openSQLite(ctx, s.path, modeReadWrite, s.opts.busyTimeout)
	if err != nil {
		return err
	}

	err = fn(db)

	closeErr := db.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("close sqlite: %w", closeErr)
	}

	return err
}

// observe records the outcome of op and attaches the error context.
func (s *Store) observe(op string, key string, start time.Time, err error) error {
	elapsed := time.Since(start)
	outcome := outcomeOf(err)

	s.metrics.observe(op, outcome, elapsed)

	level := slog.LevelDebug
	if outcome == outcomeError {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("outcome", outcome),
		slog.Duration("duration", elapsed),
	}

	if key != "" {
		attrs = append(attrs, slog.String("key", key))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	s.opts.logger.LogAttrs(context.Background(), level, "tagstore", attrs...)

	return withContext(err, op, key)
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit txn: %w", err)
	}

	committed = true

	return nil
}

// invalid records a rejected call without touching the store.
func (s *Store) invalid(op string, reason string) error {
	return s.observe(op, "", time.Now(), fmt.Errorf("%w: %s", ErrInvalidInput, reason))
}
