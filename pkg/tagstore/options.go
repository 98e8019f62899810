package tagstore

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultLockTimeout is the default wait for the insert lock.
	DefaultLockTimeout = 5 * time.Second

	// DefaultBusyTimeout is the default time SQLite waits on a locked database
	// before returning SQLITE_BUSY.
	DefaultBusyTimeout = 10 * time.Second
)

type options struct {
	logger      *slog.Logger
	registerer  prometheus.Registerer
	lockTimeout time.Duration
	busyTimeout time.Duration
}

func defaultOptions() options {
	return options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		lockTimeout: DefaultLockTimeout,
		busyTimeout: DefaultBusyTimeout,
	}
}

// Option configures a [Store].
type Option func(*options)

// WithLogger sets the logger used for per-operation debug records.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers the store's operation counters and latency histogram
// on reg. Stores sharing a registerer share the collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithLockTimeout sets how long Add operations wait for the insert lock.
// Non-positive values keep the default.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// WithBusyTimeout sets the SQLite busy timeout applied to every connection.
// Non-positive values keep the default.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}
