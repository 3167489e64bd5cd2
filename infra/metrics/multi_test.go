package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/gridlens/gridlens/core/metrics"
)

// fetchOnlySink implements only the base Sink interface.
type fetchOnlySink struct {
	mu      sync.Mutex
	fetches int
}

func (s *fetchOnlySink) RecordFetch(coremetrics.FetchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return nil
}

type fullSink struct {
	fetchOnlySink
	layers     map[string]int
	connected  *bool
	violations []string
}

func (s *fullSink) RecordLayerSize(layer string, size int) error {
	if s.layers == nil {
		s.layers = map[string]int{}
	}
	s.layers[layer] = size
	return nil
}

func (s *fullSink) RecordConnectivity(connected bool) error {
	s.connected = &connected
	return nil
}

func (s *fullSink) RecordViolation(reason string) error {
	s.violations = append(s.violations, reason)
	return nil
}

func TestMultiSinkForwardsToAll(t *testing.T) {
	base := &fetchOnlySink{}
	full := &fullSink{}
	m := NewMultiSink(base, full)

	require.NoError(t, m.RecordFetch(coremetrics.FetchEvent{Document: "overlay"}))
	assert.Equal(t, 1, base.fetches)
	assert.Equal(t, 1, full.fetches)
}

func TestMultiSinkSkipsUnsupportedRecorders(t *testing.T) {
	base := &fetchOnlySink{}
	full := &fullSink{}
	m := NewMultiSink(base, full)

	require.NoError(t, m.RecordLayerSize("generators", 7))
	require.NoError(t, m.RecordConnectivity(true))
	require.NoError(t, m.RecordViolation("stray record"))

	assert.Equal(t, 7, full.layers["generators"])
	require.NotNil(t, full.connected)
	assert.True(t, *full.connected)
	assert.Equal(t, []string{"stray record"}, full.violations)
}
