package authgate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics := &NoopMetrics{}

	metrics.IncCounter("test_counter", map[string]string{"tag": "value"})
	metrics.ObserveHistogram("test_histogram", 1.5, map[string]string{"tag": "value"})
}

func TestPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	t.Run("IncCounter", func(t *testing.T) {
		metrics.IncCounter(MetricRequests, map[string]string{"outcome": "anonymous"})
		metrics.IncCounter(MetricRequests, map[string]string{"outcome": "anonymous"})
		metrics.IncCounter(MetricRequests, map[string]string{"outcome": "rejected"})

		promMetrics, ok := metrics.(*PrometheusMetrics)
		require.True(t, ok)

		counter, ok := promMetrics.counters[MetricRequests]
		require.True(t, ok, "Counter should be registered")

		assert.Equal(t, float64(2), testutil.ToFloat64(counter.WithLabelValues("anonymous")))
		assert.Equal(t, float64(1), testutil.ToFloat64(counter.WithLabelValues("rejected")))
	})

	t.Run("ObserveHistogram", func(t *testing.T) {
		metrics.ObserveHistogram(MetricVerifySeconds, 0.25, nil)

		promMetrics := metrics.(*PrometheusMetrics)
		hist, ok := promMetrics.histograms[MetricVerifySeconds]
		require.True(t, ok, "Histogram should be registered")

		metric := &dto.Metric{}
		require.NoError(t, hist.With(nil).(prometheus.Metric).Write(metric))
		assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
		assert.Equal(t, 0.25, metric.GetHistogram().GetSampleSum())
	})

	t.Run("registered under the expected names", func(t *testing.T) {
		families, err := registry.Gather()
		require.NoError(t, err)

		var names []string
		for _, family := range families {
			names = append(names, family.GetName())
		}
		assert.ElementsMatch(t, []string{MetricRequests, MetricVerifySeconds}, names)
	})
}

func TestPrometheusMetrics_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewPrometheusMetrics(registry)
	second := NewPrometheusMetrics(registry)

	first.IncCounter(MetricRequests, map[string]string{"outcome": "authenticated"})
	assert.NotPanics(t, func() {
		second.IncCounter(MetricRequests, map[string]string{"outcome": "authenticated"})
	})

	counter := second.(*PrometheusMetrics).counters[MetricRequests]
	assert.Equal(t, float64(2), testutil.ToFloat64(counter.WithLabelValues("authenticated")))
}
