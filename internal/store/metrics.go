package store

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for adapter traffic.
type Metrics struct {
	Operations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vihar",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store adapter operations by kind and result.",
		}, []string{"op", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Operations)
	}
	return m
}

func (m *Metrics) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// Instrumented wraps an Adapter and counts every call.
type Instrumented struct {
	inner   Adapter
	metrics *Metrics
}

// Instrument wraps a with m.
func Instrument(a Adapter, m *Metrics) *Instrumented {
	return &Instrumented{inner: a, metrics: m}
}

// Unwrap returns the wrapped adapter.
func (i *Instrumented) Unwrap() Adapter {
	return i.inner
}

// Get implements Adapter.
func (i *Instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := i.inner.Get(ctx, key)
	i.metrics.observe("get", err)
	return v, ok, err
}

// Set implements Adapter.
func (i *Instrumented) Set(ctx context.Context, key, value string) error {
	err := i.inner.Set(ctx, key, value)
	i.metrics.observe("set", err)
	return err
}

// Remove implements Adapter.
func (i *Instrumented) Remove(ctx context.Context, key string) error {
	err := i.inner.Remove(ctx, key)
	i.metrics.observe("remove", err)
	return err
}

// SetMany implements Batcher, delegating to the wrapped adapter's batch
// support when present.
func (i *Instrumented) SetMany(ctx context.Context, writes []Write) error {
	err := ApplyWrites(ctx, i.inner, writes)
	i.metrics.observe("set_many", err)
	return err
}
