package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerCalls *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	archived      *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastValue     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		providerCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_provider_calls_total",
				Help: "Provider round trips by result",
			},
			[]string{"provider", "result"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_cache_lookups_total",
				Help: "Cache lookups by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		archived: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_archived_observations_total",
				Help: "Observations written to the archive backend",
			},
			[]string{"backend"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastValue: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macropull_last_value",
				Help: "Last observed value for a series",
			},
			[]string{"series"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macropull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderCall counts one provider round trip.
func (r *Recorder) RecordProviderCall(provider, result string) {
	r.providerCalls.WithLabelValues(provider, result).Inc()
}

// RecordCache counts a cache hit or miss for op.
func (r *Recorder) RecordCache(op string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(op, outcome).Inc()
}

// RecordArchived counts observations handed to an archive backend.
func (r *Recorder) RecordArchived(backend string, n int) {
	r.archived.WithLabelValues(backend).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastValue records the latest observation of a series.
func (r *Recorder) RecordLastValue(series string, v float64) {
	r.lastValue.WithLabelValues(series).Set(v)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
