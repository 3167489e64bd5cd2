// Package test exercises the whole pipeline against a mock upstream:
// HTTP client, poller, layer store and the overlay API.
package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apioverlay "github.com/gridlens/gridlens/api/overlay"
	"github.com/gridlens/gridlens/core/metrics"
	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/poller"
	"github.com/gridlens/gridlens/core/selection"
	"github.com/gridlens/gridlens/infra/logger"
	"github.com/gridlens/gridlens/infra/upstream"
	"github.com/gridlens/gridlens/internal/eventbus"
)

// mockUpstream serves the three feed documents with switchable payloads.
type mockUpstream struct {
	mu            sync.Mutex
	snapshot      string
	overlay       string
	opportunities string
	failOverlay   bool
}

func (m *mockUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/aggregated/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		fmt.Fprint(w, m.snapshot)
	})
	mux.HandleFunc("/api/overlay/state", func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.failOverlay {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, m.overlay)
	})
	mux.HandleFunc("/api/aggregated/flexibility-opportunities", func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		fmt.Fprint(w, m.opportunities)
	})
	return mux
}

func (m *mockUpstream) set(fn func(*mockUpstream)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m)
}

const snapshotJSON = `{
  "timestamp": "2026-01-15T12:00:00Z",
  "generation": {"total_mw": 30000, "by_fuel": {"wind": 14000, "gas": 9000, "nuclear": 5000, "tidal": 2000}, "generator_count": 42},
  "demand": {"total_mw": 32000},
  "interconnectors": {"net_imports_mw": 1500, "by_country": {"FR": 1000, "NO": 500}},
  "carbon": {"intensity_gco2_kwh": 110, "index": "low"},
  "markets": {"agile_price_gbp": 12.5},
  "balancing": {"bids_mw": 400, "offers_mw": 200}
}`

const overlayJSON = `{
  "layers": {
    "generators": {"name": "generators", "visible": true, "opacity": 1, "data": [
      {"id": "drax", "name": "Drax", "fuel_type": "biomass", "coords": {"lat": 53.74, "lng": -0.99}, "capacity_mw": 2600, "output_mw": 1800}
    ]},
    "interconnectors": {"name": "interconnectors", "visible": true, "opacity": 1, "data": [
      {"id": "ifa", "name": "IFA", "country_code": "FR", "coords": {"lat": 51.1, "lng": 1.2}, "capacity_mw": 2000, "flow_mw": 1000}
    ]},
    "carbon_intensity": {"name": "carbon_intensity", "visible": true, "opacity": 1, "data": []}
  }
}`

const opportunitiesJSON = `{"opportunities": [
  {"type": "carbon_optimized", "action": "INCREASE_LOAD", "reason": "Low carbon window", "confidence": 0.8}
]}`

type pipeline struct {
	up    *mockUpstream
	poll  *poller.Poller
	store *overlay.Store
	api   *httptest.Server
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	up := &mockUpstream{snapshot: snapshotJSON, overlay: overlayJSON, opportunities: opportunitiesJSON}
	upSrv := httptest.NewServer(up.handler())
	t.Cleanup(upSrv.Close)

	log := logger.NopLogger{}
	store := overlay.NewStore(log)
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	client := upstream.NewClient(upSrv.URL, time.Second, log)
	poll := poller.New(client, store, bus, metrics.NopSink{}, log, time.Hour)
	sel := selection.NewController(store, log)

	h := apioverlay.NewHandler(store, poll, sel, log)
	apiSrv := httptest.NewServer(h.Routes())
	t.Cleanup(apiSrv.Close)

	return &pipeline{up: up, poll: poll, store: store, api: apiSrv}
}

func (p *pipeline) refresh(t *testing.T) {
	t.Helper()
	before := p.poll.Status()
	p.poll.RefreshNow()
	require.Eventually(t, func() bool {
		for doc, st := range p.poll.Status() {
			if st.LastSuccess.Equal(before[doc].LastSuccess) && st.LastError == before[doc].LastError {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPipelineServesSceneAndSummary(t *testing.T) {
	p := newPipeline(t)
	p.refresh(t)

	var sum struct {
		TotalGenerationMW float64 `json:"total_generation_mw"`
		NetFlow           string  `json:"net_flow"`
		CarbonIndex       string  `json:"carbon_index"`
		Mix               []struct {
			Fuel string `json:"fuel"`
		} `json:"mix"`
	}
	require.Equal(t, http.StatusOK, get(t, p.api.URL+"/summary", &sum))
	assert.Equal(t, 30000.0, sum.TotalGenerationMW)
	assert.Equal(t, "importing", sum.NetFlow)
	assert.Equal(t, "low", sum.CarbonIndex)
	require.NotEmpty(t, sum.Mix)
	assert.Equal(t, "wind", sum.Mix[0].Fuel, "ranked by output")

	var sc struct {
		Markers []struct {
			ID    string `json:"id"`
			Layer string `json:"layer"`
		} `json:"markers"`
		Lines []struct {
			ID string `json:"id"`
		} `json:"lines"`
	}
	require.Equal(t, http.StatusOK, get(t, p.api.URL+"/scene", &sc))

	ids := map[string]bool{}
	for _, m := range sc.Markers {
		ids[m.ID] = true
	}
	assert.True(t, ids["drax"], "generator from the feed")
	assert.True(t, ids["bolney"], "default grid node survives an absent layer")
	require.NotEmpty(t, sc.Lines)
	assert.Equal(t, "ifa", sc.Lines[0].ID)
}

func TestPipelineFeedOpportunitiesWinOverDerived(t *testing.T) {
	p := newPipeline(t)
	p.refresh(t)

	var opps []model.FlexibilityOpportunity
	require.Equal(t, http.StatusOK, get(t, p.api.URL+"/opportunities", &opps))
	require.Len(t, opps, 1)
	assert.Equal(t, model.ActionIncreaseLoad, opps[0].Action)
	assert.False(t, opps[0].Derived)
}

func TestPipelineEmptyLayerStaysEmpty(t *testing.T) {
	p := newPipeline(t)
	p.refresh(t)

	data := p.store.Snapshot()
	assert.Empty(t, data.CarbonRegions, "an empty live layer does not fall back to defaults")

	st, err := p.store.State(model.LayerCarbon)
	require.NoError(t, err)
	assert.True(t, st.Live)
}

func TestPipelineOverlayOutageKeepsDefaults(t *testing.T) {
	p := newPipeline(t)
	p.refresh(t)
	require.NotEmpty(t, p.store.Snapshot().Generators)

	p.up.set(func(m *mockUpstream) { m.failOverlay = true })
	p.refresh(t)

	data := p.store.Snapshot()
	assert.NotEmpty(t, data.Generators, "last good data is retained across an outage")
	assert.NotEmpty(t, data.GridNodes, "default nodes stay available")

	var status struct {
		Connected bool                             `json:"connected"`
		Documents map[string]poller.DocumentStatus `json:"documents"`
	}
	require.Equal(t, http.StatusOK, get(t, p.api.URL+"/status", &status))
	assert.False(t, status.Connected, "a failing document marks the source unhealthy")
	assert.False(t, status.Documents["overlay"].OK)
	assert.True(t, status.Documents["snapshot"].OK)
}

func TestPipelineSelectionAgainstLiveData(t *testing.T) {
	p := newPipeline(t)
	p.refresh(t)

	resp, err := http.Post(p.api.URL+"/selection", "application/json",
		strings.NewReader(`{"id": "ifa", "country_code": "FR"}`))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cur struct {
		Selection model.Selection `json:"selection"`
		Present   bool            `json:"present"`
	}
	require.Equal(t, http.StatusOK, get(t, p.api.URL+"/selection", &cur))
	assert.Equal(t, model.KindInterconnector, cur.Selection.Kind)
	assert.True(t, cur.Present)
}
