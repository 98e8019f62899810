package tagstore

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrInvalidInput is returned when a path, filename or tag is empty.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreExists is returned by [Store.CreateSchema] when a file is already
	// present at the configured location.
	ErrStoreExists = errors.New("store already exists")

	// ErrStoreMissing is returned when the backing store file does not exist.
	ErrStoreMissing = errors.New("store does not exist")

	// ErrExists is returned by the Add operations when the key is already present.
	ErrExists = errors.New("already exists")

	// ErrNotFound is returned when a lookup matched no row.
	ErrNotFound = errors.New("not found")

	// ErrLockTimeout is returned when the insert lock could not be acquired in time.
	ErrLockTimeout = errors.New("insert lock timeout")
)

// Error is the error type returned by all public tagstore operations.
//
// The underlying message comes first, followed by the operation and key:
//
//	already exists (op=add_dir key=/tmp/test)
//
// Use [errors.Is] for the sentinels and [errors.As] for the fields:
//
//	var sErr *tagstore.Error
//	if errors.As(err, &sErr) {
//	    fmt.Println(sErr.Op, sErr.Key)
//	}
type Error struct {
	// Op names the operation, e.g. "add_file" or "dir_path".
	Op string

	// Key is the caller-supplied lookup key rendered as text. For file
	// operations scoped to a directory it is "<dir>/<name>".
	Key string

	// Err is the underlying cause.
	Err error
}

// Error formats as "<cause> (op=X key=Y)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	cause := e.cause()
	suffix := e.suffix()

	if suffix == "" {
		return cause
	}

	if cause == "" {
		return suffix
	}

	return cause + " " + suffix
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func (e *Error) suffix() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}

	if e.Key != "" {
		parts = append(parts, "key="+e.Key)
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func (e *Error) cause() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// withContext attaches the operation and key at the API boundary.
// An existing *Error keeps its fields; only missing ones are filled in.
func withContext(err error, op string, key string) error {
	if err == nil {
		return nil
	}

	existing := &Error{}
	if errors.As(err, &existing) {
		if existing.Op == "" {
			existing.Op = op
		}

		if existing.Key == "" {
			existing.Key = key
		}

		return existing
	}

	return &Error{Op: op, Key: key, Err: err}
}

// IsEngineError reports whether err carries a diagnostic from the SQLite
// engine, as opposed to a precondition failure like [ErrExists].
func IsEngineError(err error) bool {
	var sqlErr sqlite3.Error

	return errors.As(err, &sqlErr)
}

// isConstraint reports whether err is a SQLite constraint violation with the
// given extended code.
func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}

	return sqlErr.Code == sqlite3.ErrConstraint && sqlErr.ExtendedCode == code
}
