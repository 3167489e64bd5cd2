package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/gridlens/gridlens/core/metrics"
)

func TestPromSinkRecordFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{
		Document: "snapshot",
		Outcome:  coremetrics.FetchSuccess,
		Duration: 120 * time.Millisecond,
		Time:     time.Now(),
	}))
	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{
		Document: "snapshot",
		Outcome:  coremetrics.FetchFailure,
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.fetches.WithLabelValues("snapshot", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.fetches.WithLabelValues("snapshot", "failure")))
}

func TestPromSinkGaugesAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordLayerSize("generators", 42))
	assert.Equal(t, 42.0, testutil.ToFloat64(sink.layerSize.WithLabelValues("generators")))

	require.NoError(t, sink.RecordConnectivity(true))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.connected))
	require.NoError(t, sink.RecordConnectivity(false))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.connected))

	require.NoError(t, sink.RecordViolation("ambiguous"))
	require.NoError(t, sink.RecordViolation("unclassified"))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.violations))
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err, "re-registration reuses existing collectors")

	require.NoError(t, first.RecordViolation("x"))
	require.NoError(t, second.RecordViolation("y"))
	assert.Equal(t, 2.0, testutil.ToFloat64(first.violations))
}
