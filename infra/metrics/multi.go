package metrics

import coremetrics "github.com/gridlens/gridlens/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFetch forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordFetch(ev coremetrics.FetchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordLayerSize forwards layer sizes to sinks that support them.
func (m *MultiSink) RecordLayerSize(layer string, size int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.LayerSizeRecorder); ok {
			if err := rec.RecordLayerSize(layer, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordConnectivity forwards connectivity transitions to sinks that support
// them.
func (m *MultiSink) RecordConnectivity(connected bool) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ConnectivityRecorder); ok {
			if err := rec.RecordConnectivity(connected); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordViolation forwards contract violations to sinks that support them.
func (m *MultiSink) RecordViolation(reason string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ViolationRecorder); ok {
			if err := rec.RecordViolation(reason); err != nil {
				return err
			}
		}
	}
	return nil
}
