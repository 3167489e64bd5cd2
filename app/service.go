// Package app wires the configured components into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	apioverlay "github.com/gridlens/gridlens/api/overlay"
	"github.com/gridlens/gridlens/config"
	coremetrics "github.com/gridlens/gridlens/core/metrics"
	"github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/poller"
	"github.com/gridlens/gridlens/core/selection"
	"github.com/gridlens/gridlens/infra/announce"
	"github.com/gridlens/gridlens/infra/logger"
	"github.com/gridlens/gridlens/infra/metrics"
	"github.com/gridlens/gridlens/infra/upstream"
	"github.com/gridlens/gridlens/internal/eventbus"
)

// Service orchestrates the poller, the API server and the announcer.
type Service struct {
	Store     *overlay.Store
	Poller    *poller.Poller
	Selection *selection.Controller

	server      *apioverlay.Server
	announcer   *announce.Announcer
	bus         *eventbus.Bus
	sink        coremetrics.Sink
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket,
		)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	store := overlay.NewStore(logger.New("overlay"))
	src := upstream.NewClient(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		logger.New("upstream"),
	)
	interval := time.Duration(cfg.Upstream.PollIntervalSeconds) * time.Second
	poll := poller.New(src, store, bus, sink, logger.New("poller"), interval)
	sel := selection.NewController(store, logger.New("selection"))

	handler := apioverlay.NewHandler(store, poll, sel, logger.New("api"))
	handler.SetDefaultProjection(cfg.Overlay.Projection)
	server := apioverlay.NewServer(cfg.Server.Addr, handler, logger.New("api"))

	svc := &Service{
		Store:       store,
		Poller:      poll,
		Selection:   sel,
		server:      server,
		bus:         bus,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}
	if cfg.Announce.Enabled {
		ann, err := announce.New(cfg.Announce)
		if err != nil {
			return nil, fmt.Errorf("announcer: %w", err)
		}
		svc.announcer = ann
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.announcer != nil {
		go s.announcer.Watch(ctx, s.bus)
	}
	go s.watchEvents(ctx)
	s.Poller.Start()
	if err := s.server.Start(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	<-ctx.Done()
	return nil
}

func (s *Service) watchEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	layers := s.Poller.LayerUpdates().Subscribe()
	defer s.Poller.LayerUpdates().Unsubscribe(layers)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-layers:
			if !ok {
				return
			}
			s.log.Debugf("layer %s updated, %d entities", e.Layer, e.Size)
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if e, isOff := ev.(eventbus.SourceOffline); isOff {
				if e.Connected {
					s.log.Infof("upstream reachable again")
				} else {
					s.log.Warnf("upstream unhealthy, serving last good data")
				}
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Poller.Stop()
	if s.announcer != nil {
		s.announcer.Close()
	}
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	s.bus.Close()
	return nil
}
