package tagstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ftag_store_operations_total. The store_ labels describe
// the backing file, the others the row an operation looked for.
const (
	outcomeOK           = "ok"
	outcomeExists       = "exists"
	outcomeNotFound     = "not_found"
	outcomeStoreExists  = "store_exists"
	outcomeStoreMissing = "store_missing"
	outcomeInvalid      = "invalid"
	outcomeError        = "error"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ftag_store_operations_total",
		Help: "Tag store operations by operation and outcome.",
	}, []string{"op", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ftag_store_operation_duration_seconds",
		Help:    "Tag store operation latency, including connection open and close.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"op"})

	var err error

	operations, err = register(reg, operations)
	if err != nil {
		return nil, err
	}

	duration, err = register(reg, duration)
	if err != nil {
		return nil, err
	}

	return &metrics{operations: operations, duration: duration}, nil
}

// register returns the already registered collector when another store got
// there first.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(C)
		if ok {
			return existing, nil
		}
	}

	var zero C

	return zero, fmt.Errorf("register metrics: %w", err)
}

func (m *metrics) observe(op string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrStoreExists):
		return outcomeStoreExists
	case errors.Is(err, ErrStoreMissing):
		return outcomeStoreMissing
	case errors.Is(err, ErrExists):
		return outcomeExists
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrInvalidInput):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
