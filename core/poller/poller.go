// Package poller drives the refresh lifecycle: three feed documents fetched
// concurrently on a fixed interval, each in its own failure domain, with
// stale results superseded by newer ones.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridlens/gridlens/core/logger"
	"github.com/gridlens/gridlens/core/metrics"
	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/stats"
	"github.com/gridlens/gridlens/internal/eventbus"
)

// Document names. They double as metric labels.
const (
	DocSnapshot      = "snapshot"
	DocOverlay       = "overlay"
	DocOpportunities = "opportunities"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 60 * time.Second

// Source fetches the three feed documents. Fetches may block; the poller
// never aborts one in flight.
type Source interface {
	FetchSnapshot(ctx context.Context) (model.AggregatedSnapshot, error)
	FetchOverlay(ctx context.Context) (overlay.Document, error)
	FetchOpportunities(ctx context.Context) ([]model.FlexibilityOpportunity, error)
}

// DocumentStatus describes the last fetch of one document.
type DocumentStatus struct {
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	OK          bool      `json:"ok"`
}

type fetchResult struct {
	snapshot *model.AggregatedSnapshot
	overlay  *overlay.Document
	opps     []model.FlexibilityOpportunity
	err      error
}

// Poller owns the refresh loop. All exported methods are safe for
// concurrent use.
type Poller struct {
	src      Source
	store    *overlay.Store
	bus      *eventbus.Bus
	layerBus *eventbus.TypedBus[eventbus.LayerUpdated]
	sink     metrics.Sink
	log      logger.Logger
	interval time.Duration

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	seq      map[string]uint64
	inflight map[string]bool
	pending  map[string]bool
	status   map[string]*DocumentStatus

	connected bool
	connKnown bool

	snapshot      *model.AggregatedSnapshot
	opportunities []model.FlexibilityOpportunity
	oppsLive      bool
}

// New creates a poller. A non-positive interval falls back to
// DefaultInterval.
func New(src Source, store *overlay.Store, bus *eventbus.Bus, sink metrics.Sink, log logger.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		src:      src,
		store:    store,
		bus:      bus,
		layerBus: eventbus.NewTyped[eventbus.LayerUpdated](),
		sink:     sink,
		log:      log,
		interval: interval,
		seq:      make(map[string]uint64),
		inflight: make(map[string]bool),
		pending:  make(map[string]bool),
		status:   make(map[string]*DocumentStatus),
	}
	for _, doc := range documents() {
		p.status[doc] = &DocumentStatus{}
	}
	return p
}

func documents() []string {
	return []string{DocSnapshot, DocOverlay, DocOpportunities}
}

// Start launches the poll loop with an immediate first cycle. Starting a
// running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	p.log.Infof("poller started, interval %s", p.interval)
	go p.run(stopCh)
}

func (p *Poller) run(stopCh chan struct{}) {
	p.RefreshNow()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.RefreshNow()
		}
	}
}

// Stop halts the poll loop. Fetches already in flight are not aborted but
// their results are discarded. Stopping a stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	// Invalidate everything in flight so late results land stale.
	for _, doc := range documents() {
		if p.inflight[doc] {
			p.seq[doc]++
		}
		p.pending[doc] = false
	}
	p.mu.Unlock()
	p.log.Infof("poller stopped")
}

// RefreshNow triggers one fetch cycle for all documents. A document already
// being fetched is re-fetched once the current attempt finishes, so a burst
// of refreshes collapses into at most one rerun.
func (p *Poller) RefreshNow() {
	cycleID := uuid.NewString()
	p.log.Debugf("refresh cycle %s", cycleID)
	for _, doc := range documents() {
		p.fetchDoc(doc, cycleID)
	}
}

func (p *Poller) fetchDoc(doc, cycleID string) {
	p.mu.Lock()
	if p.inflight[doc] {
		p.pending[doc] = true
		p.mu.Unlock()
		return
	}
	p.inflight[doc] = true
	p.seq[doc]++
	seq := p.seq[doc]
	p.mu.Unlock()

	go func() {
		start := time.Now()
		var res fetchResult
		ctx := context.Background()
		switch doc {
		case DocSnapshot:
			s, err := p.src.FetchSnapshot(ctx)
			res.snapshot, res.err = &s, err
		case DocOverlay:
			d, err := p.src.FetchOverlay(ctx)
			res.overlay, res.err = &d, err
		case DocOpportunities:
			o, err := p.src.FetchOpportunities(ctx)
			res.opps, res.err = o, err
		}
		p.complete(doc, seq, cycleID, res, time.Since(start))
	}()
}

func (p *Poller) complete(doc string, seq uint64, cycleID string, res fetchResult, dur time.Duration) {
	p.mu.Lock()
	p.inflight[doc] = false
	rerun := p.pending[doc]
	p.pending[doc] = false

	stale := seq != p.seq[doc]
	outcome := metrics.FetchSuccess
	switch {
	case stale:
		outcome = metrics.FetchSuperseded
	case res.err != nil:
		outcome = metrics.FetchFailure
	}

	if !stale {
		st := p.status[doc]
		if res.err != nil {
			st.LastError = res.err.Error()
			st.OK = false
			p.log.Warnf("fetch %s failed: %v", doc, res.err)
			p.applyFailureLocked(doc)
		} else {
			st.LastError = ""
			st.OK = true
			st.LastSuccess = time.Now()
			p.applyLocked(res)
		}
		p.updateConnectivityLocked()
	} else {
		p.log.Debugf("discarding stale %s result from cycle %s", doc, cycleID)
	}
	p.mu.Unlock()

	if err := p.sink.RecordFetch(metrics.FetchEvent{
		Document: doc,
		Outcome:  outcome,
		Duration: dur,
		CycleID:  cycleID,
		Time:     time.Now(),
	}); err != nil {
		p.log.Debugf("record fetch metric: %v", err)
	}

	if rerun {
		p.fetchDoc(doc, uuid.NewString())
	}
}

func (p *Poller) applyLocked(res fetchResult) {
	now := time.Now()
	switch {
	case res.snapshot != nil:
		p.snapshot = res.snapshot
		p.bus.Publish(eventbus.SnapshotUpdated{Snapshot: *res.snapshot})
	case res.overlay != nil:
		p.applyOverlayLocked(*res.overlay, now)
	default:
		p.opportunities = res.opps
		p.oppsLive = true
		p.bus.Publish(eventbus.OpportunitiesUpdated{Opportunities: res.opps})
	}
}

func (p *Poller) applyOverlayLocked(doc overlay.Document, now time.Time) {
	type layerApply struct {
		kind  model.LayerKind
		size  int
		apply func()
	}
	layers := []layerApply{
		{model.LayerGenerators, len(doc.Generators), func() { p.store.ApplyGenerators(doc.Generators, now) }},
		{model.LayerInterconnectors, len(doc.Interconnectors), func() { p.store.ApplyInterconnectors(doc.Interconnectors, now) }},
		{model.LayerGridNodes, len(doc.GridNodes), func() { p.store.ApplyGridNodes(doc.GridNodes, now) }},
		{model.LayerCarbon, len(doc.CarbonRegions), func() { p.store.ApplyCarbonRegions(doc.CarbonRegions, now) }},
	}
	for _, l := range layers {
		if !doc.Present[l.kind] {
			p.store.RecordMissing(l.kind)
			continue
		}
		l.apply()
		p.layerBus.Publish(eventbus.LayerUpdated{Layer: l.kind, Size: l.size, At: now})
		if rec, ok := p.sink.(metrics.LayerSizeRecorder); ok {
			if err := rec.RecordLayerSize(string(l.kind), l.size); err != nil {
				p.log.Debugf("record layer size: %v", err)
			}
		}
	}
	if rec, ok := p.sink.(metrics.ViolationRecorder); ok {
		for _, v := range doc.Violations {
			if err := rec.RecordViolation(v.Reason); err != nil {
				p.log.Debugf("record violation: %v", err)
			}
		}
	}
}

func (p *Poller) applyFailureLocked(doc string) {
	if doc != DocOverlay {
		// Snapshot and opportunity failures retain the last value; the
		// opportunity accessor derives a fallback when nothing was ever
		// received.
		return
	}
	for _, kind := range model.LayerKinds() {
		p.store.RecordMissing(kind)
	}
}

func (p *Poller) updateConnectivityLocked() {
	// Connected means the whole source is healthy: every document must
	// have succeeded on its most recent fetch. Documents that have never
	// been fetched leave connectivity undecided.
	connected := true
	for _, st := range p.status {
		if st.LastSuccess.IsZero() && st.LastError == "" {
			return
		}
		if !st.OK {
			connected = false
		}
	}
	if p.connKnown && connected == p.connected {
		return
	}
	p.connKnown = true
	p.connected = connected
	p.bus.Publish(eventbus.SourceOffline{Connected: connected, At: time.Now()})
	if rec, ok := p.sink.(metrics.ConnectivityRecorder); ok {
		if err := rec.RecordConnectivity(connected); err != nil {
			p.log.Debugf("record connectivity: %v", err)
		}
	}
	if connected {
		p.log.Infof("upstream reachable")
	} else {
		p.log.Warnf("upstream unhealthy, at least one document failing")
	}
}

// LayerUpdates returns the typed bus carrying per-layer refresh events.
func (p *Poller) LayerUpdates() *eventbus.TypedBus[eventbus.LayerUpdated] {
	return p.layerBus
}

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Connected reports whether every document succeeded on its most recent
// fetch.
func (p *Poller) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Status returns a copy of the per-document fetch status.
func (p *Poller) Status() map[string]DocumentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]DocumentStatus, len(p.status))
	for doc, st := range p.status {
		out[doc] = *st
	}
	return out
}

// Snapshot returns the latest aggregated snapshot, if one has been received.
func (p *Poller) Snapshot() (model.AggregatedSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return model.AggregatedSnapshot{}, false
	}
	return *p.snapshot, true
}

// Opportunities returns the current flexibility opportunities. While the
// feed has never delivered any, they are derived locally from the latest
// snapshot.
func (p *Poller) Opportunities() []model.FlexibilityOpportunity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.oppsLive {
		return append([]model.FlexibilityOpportunity(nil), p.opportunities...)
	}
	if p.snapshot == nil {
		return nil
	}
	return stats.DeriveOpportunities(*p.snapshot)
}
