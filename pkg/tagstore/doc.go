// Package tagstore is the data-access layer of the file tagging manager.
//
// It records directories, the files inside them and free-form tags in a
// single-file SQLite database. Every operation is a direct pass-through: it
// opens its own connection on the configured path, runs one statement (two for
// the Add operations), and closes the connection again. Nothing is cached in
// memory and no connection survives between calls.
//
// Lookups distinguish three outcomes. A value, [ErrNotFound], or an engine
// failure that wraps the driver's diagnostic:
//
//	id, err := s.DirID(ctx, "/tmp/test")
//	switch {
//	case errors.Is(err, tagstore.ErrNotFound):
//	    // no such directory
//	case err != nil:
//	    // sqlite failed, see tagstore.IsEngineError
//	}
//
// Add operations are insert-if-absent. They hold an advisory lock on
// "<path>.lock" while they check for the key and insert it, so concurrent
// writers in this or other processes cannot both insert the same key.
package tagstore
