// Package metrics defines the sink abstraction the engine emits into.
// Concrete sinks live under infra/metrics.
package metrics

import "time"

// FetchOutcome classifies how a document fetch ended.
type FetchOutcome string

const (
	FetchSuccess    FetchOutcome = "success"
	FetchFailure    FetchOutcome = "failure"
	FetchSuperseded FetchOutcome = "superseded"
)

// FetchEvent describes one upstream document fetch.
type FetchEvent struct {
	Document string
	Outcome  FetchOutcome
	Duration time.Duration
	CycleID  string
	Time     time.Time
}

// Sink records fetch events. Implementations must be safe for concurrent use.
type Sink interface {
	RecordFetch(ev FetchEvent) error
}

// LayerSizeRecorder is implemented by sinks that track layer entity counts.
type LayerSizeRecorder interface {
	RecordLayerSize(layer string, size int) error
}

// ConnectivityRecorder is implemented by sinks that track upstream
// connectivity.
type ConnectivityRecorder interface {
	RecordConnectivity(connected bool) error
}

// ViolationRecorder is implemented by sinks that count upstream contract
// violations.
type ViolationRecorder interface {
	RecordViolation(reason string) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordFetch(FetchEvent) error      { return nil }
func (NopSink) RecordLayerSize(string, int) error { return nil }
func (NopSink) RecordConnectivity(bool) error     { return nil }
func (NopSink) RecordViolation(string) error      { return nil }
