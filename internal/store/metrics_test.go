package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_CountsOperations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	mem := NewMemory()
	a := Instrument(mem, metrics)

	require.NoError(t, a.Set(ctx, "k", "v"))
	_, _, _ = a.Get(ctx, "k")
	_, _, _ = a.Get(ctx, "missing")
	require.NoError(t, a.Remove(ctx, "k"))
	require.NoError(t, a.SetMany(ctx, []Write{{Key: "a", Value: "1"}}))

	mem.FailWrites(true)
	require.Error(t, a.Set(ctx, "k", "v"))

	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Operations.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Operations.WithLabelValues("set", "error")))
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.Operations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Operations.WithLabelValues("remove", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Operations.WithLabelValues("set_many", "ok")))
	assert.Same(t, mem, a.Unwrap())

	count, err := promtest.GatherAndCount(reg, "vihar_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := NewMetrics(nil)
	require.NotNil(t, m.Operations)
}
