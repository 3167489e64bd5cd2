package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/gridlens/gridlens/core/metrics"
	"github.com/gridlens/gridlens/infra/logger"
)

// InfluxSink writes fetch and layer events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordFetch writes a fetch event as line protocol.
func (s *InfluxSink) RecordFetch(ev coremetrics.FetchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("overlay_fetch").
		AddTag("document", ev.Document).
		AddTag("outcome", string(ev.Outcome)).
		AddTag("cycle_id", ev.CycleID).
		AddTag("component", "poller").
		AddField("duration_ms", float64(ev.Duration.Milliseconds())).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordLayerSize writes the entity count of a layer.
func (s *InfluxSink) RecordLayerSize(layer string, size int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("overlay_layer").
		AddTag("layer", layer).
		AddTag("component", "layer_store").
		AddField("entities", size).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordConnectivity writes an upstream connectivity transition.
func (s *InfluxSink) RecordConnectivity(connected bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("overlay_upstream").
		AddTag("component", "poller").
		AddField("connected", connected).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordViolation writes a contract violation event.
func (s *InfluxSink) RecordViolation(reason string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("overlay_contract_violation").
		AddTag("component", "poller").
		AddField("reason", reason).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
