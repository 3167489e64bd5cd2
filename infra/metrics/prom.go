package metrics

import (
	coremetrics "github.com/gridlens/gridlens/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records fetch and layer metrics in Prometheus collectors.
type PromSink struct {
	fetches    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	layerSize  *prometheus.GaugeVec
	connected  prometheus.Gauge
	violations prometheus.Counter
}

// NewPromSink registers overlay metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using the configured
// address.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_fetches_total",
		Help: "Total number of upstream document fetches",
	}, []string{"document", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "overlay_fetch_duration_seconds",
		Help:    "Upstream document fetch duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"document"})
	layerSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "overlay_layer_entities",
		Help: "Number of entities in each overlay layer",
	}, []string{"layer"})
	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_upstream_connected",
		Help: "Whether at least one upstream document is being fetched successfully",
	})
	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "overlay_contract_violations_total",
		Help: "Total number of upstream records rejected for contract violations",
	})

	if err := reg.Register(fetches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(layerSize); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			layerSize = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(connected); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			connected = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(violations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			violations = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		fetches:    fetches,
		duration:   duration,
		layerSize:  layerSize,
		connected:  connected,
		violations: violations,
	}, nil
}

// RecordFetch increments the fetch counter and observes the duration.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(ev.Document, string(ev.Outcome)).Inc()
	s.duration.WithLabelValues(ev.Document).Observe(ev.Duration.Seconds())
	return nil
}

// RecordLayerSize sets the entity count gauge for a layer.
func (s *PromSink) RecordLayerSize(layer string, size int) error {
	s.layerSize.WithLabelValues(layer).Set(float64(size))
	return nil
}

// RecordConnectivity sets the connectivity gauge.
func (s *PromSink) RecordConnectivity(connected bool) error {
	if connected {
		s.connected.Set(1)
	} else {
		s.connected.Set(0)
	}
	return nil
}

// RecordViolation increments the contract violation counter.
func (s *PromSink) RecordViolation(string) error {
	s.violations.Inc()
	return nil
}
