package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounters(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordCache("macro.gdp", true)
	r.RecordCache("macro.gdp", false)
	r.RecordCache("macro.gdp", false)
	r.RecordProviderCall("fred", "ok")
	r.RecordArchived("kafka", 12)
	r.RecordLastValue("GDP", 27000.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("macro.gdp", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("macro.gdp", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerCalls.WithLabelValues("fred", "ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.archived.WithLabelValues("kafka")))
	assert.Equal(t, 27000.5, testutil.ToFloat64(r.lastValue.WithLabelValues("GDP")))
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}
