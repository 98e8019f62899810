package tagstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newMetricsStore(t *testing.T, reg prometheus.Registerer) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "tags.db"), WithMetrics(reg))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = s.CreateSchema(t.Context())
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return s
}

func Test_Metrics_Count_Outcomes_When_Operations_Run(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s := newMetricsStore(t, reg)
	ctx := t.Context()

	_, err := s.AddTag(ctx, "a")
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}

	_, err = s.AddTag(ctx, "a")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}

	_, err = s.TagID(ctx, "b")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_, _ = s.TagID(ctx, "")

	ops := s.metrics.operations

	checks := []struct {
		op, outcome string
		want        float64
	}{
		{opCreateSchema, outcomeOK, 1},
		{opAddTag, outcomeOK, 1},
		{opAddTag, outcomeExists, 1},
		{opTagID, outcomeNotFound, 1},
		{opTagID, outcomeInvalid, 1},
	}

	for _, c := range checks {
		got := testutil.ToFloat64(ops.WithLabelValues(c.op, c.outcome))
		if got != c.want {
			t.Errorf("%s/%s = %v, want %v", c.op, c.outcome, got, c.want)
		}
	}

	if n := testutil.CollectAndCount(s.metrics.duration); n != 3 {
		t.Errorf("duration series = %d, want 3", n)
	}
}

func Test_Metrics_Separate_Store_Outcomes_When_File_Missing_Or_Present(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	s, err := New(filepath.Join(t.TempDir(), "tags.db"), WithMetrics(reg))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := t.Context()

	_, err = s.TagExists(ctx, "a")
	if !errors.Is(err, ErrStoreMissing) {
		t.Fatalf("err = %v, want ErrStoreMissing", err)
	}

	err = s.CreateSchema(ctx)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}

	err = s.CreateSchema(ctx)
	if !errors.Is(err, ErrStoreExists) {
		t.Fatalf("err = %v, want ErrStoreExists", err)
	}

	ops := s.metrics.operations

	checks := []struct {
		op, outcome string
		want        float64
	}{
		{opTagExists, outcomeStoreMissing, 1},
		{opTagExists, outcomeNotFound, 0},
		{opCreateSchema, outcomeStoreExists, 1},
		{opCreateSchema, outcomeExists, 0},
	}

	for _, c := range checks {
		got := testutil.ToFloat64(ops.WithLabelValues(c.op, c.outcome))
		if got != c.want {
			t.Errorf("%s/%s = %v, want %v", c.op, c.outcome, got, c.want)
		}
	}
}

func Test_Metrics_Shared_When_Stores_Use_Same_Registry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first := newMetricsStore(t, reg)
	second := newMetricsStore(t, reg)

	if first.metrics.operations != second.metrics.operations {
		t.Fatal("second store registered its own counter")
	}

	got := testutil.ToFloat64(first.metrics.operations.WithLabelValues(opCreateSchema, outcomeOK))
	if got != 2 {
		t.Fatalf("create_schema ok = %v, want 2", got)
	}
}

func Test_Metrics_Disabled_When_No_Registerer(t *testing.T) {
	t.Parallel()

	s, err := New(filepath.Join(t.TempDir(), "tags.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if s.metrics != nil {
		t.Fatal("metrics configured without registerer")
	}

	// observe must tolerate the nil collector set.
	err = s.CreateSchema(t.Context())
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
}
