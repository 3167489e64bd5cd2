// Package overlay holds the layer store: per-layer data, presentation state
// and the fallback policy applied when a feed document is missing.
package overlay

import (
	"errors"
	"sync"
	"time"

	"github.com/gridlens/gridlens/core/logger"
	"github.com/gridlens/gridlens/core/model"
)

// ErrUnknownLayer is returned for layer kinds the store does not manage.
var ErrUnknownLayer = errors.New("unknown layer")

// DefaultOpacity is applied to every layer at construction.
const DefaultOpacity = 0.9

// Data is a deep copy of the store contents, safe to read without locking.
type Data struct {
	Generators      []model.Generator
	Interconnectors []model.InterconnectorLink
	GridNodes       []model.GridNode
	CarbonRegions   []model.CarbonRegion
	States          map[model.LayerKind]model.LayerState
}

// Store keeps the current layer data and state. Feed updates replace a
// layer's data wholesale. A layer that has never received feed data serves
// its configured defaults; once live it retains the last good data across
// upstream failures.
type Store struct {
	mu  sync.RWMutex
	log logger.Logger

	states map[model.LayerKind]*model.LayerState

	generators      []model.Generator
	interconnectors []model.InterconnectorLink
	gridNodes       []model.GridNode
	carbonRegions   []model.CarbonRegion

	defaultNodes []model.GridNode
}

// NewStore creates a store with every layer visible at the default opacity,
// serving its default data until the first feed update arrives.
func NewStore(log logger.Logger) *Store {
	s := &Store{
		log:          log,
		states:       make(map[model.LayerKind]*model.LayerState),
		defaultNodes: DefaultGridNodes(),
	}
	for _, kind := range model.LayerKinds() {
		s.states[kind] = &model.LayerState{
			Kind:    kind,
			Visible: true,
			Opacity: DefaultOpacity,
		}
	}
	s.gridNodes = cloneNodes(s.defaultNodes)
	return s
}

// ApplyGenerators replaces the generator layer. An empty slice is a valid
// live update, not a failure.
func (s *Store) ApplyGenerators(gens []model.Generator, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generators = gens
	s.markLive(model.LayerGenerators, at)
}

// ApplyInterconnectors replaces the interconnector layer.
func (s *Store) ApplyInterconnectors(links []model.InterconnectorLink, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interconnectors = links
	s.markLive(model.LayerInterconnectors, at)
}

// ApplyGridNodes replaces the grid node layer, superseding the static
// default set.
func (s *Store) ApplyGridNodes(nodes []model.GridNode, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gridNodes = nodes
	s.markLive(model.LayerGridNodes, at)
}

// ApplyCarbonRegions replaces the carbon intensity layer.
func (s *Store) ApplyCarbonRegions(regions []model.CarbonRegion, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carbonRegions = regions
	s.markLive(model.LayerCarbon, at)
}

func (s *Store) markLive(kind model.LayerKind, at time.Time) {
	st := s.states[kind]
	st.Live = true
	st.UpdatedAt = at
}

// RecordMissing notes that the feed document covering the layer was absent
// or failed. Layers that were never live fall back to their defaults; live
// layers retain their last good data.
func (s *Store) RecordMissing(kind model.LayerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[kind]
	if !ok {
		return
	}
	if st.Live {
		s.log.Debugf("layer %s missing from feed, retaining last data", kind)
		return
	}
	if kind == model.LayerGridNodes {
		s.gridNodes = cloneNodes(s.defaultNodes)
	}
	s.log.Infof("layer %s has no feed data, serving defaults", kind)
}

// SetVisible toggles a layer.
func (s *Store) SetVisible(kind model.LayerKind, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[kind]
	if !ok {
		return ErrUnknownLayer
	}
	st.Visible = visible
	return nil
}

// SetOpacity sets a layer's opacity, clamped to [0, 1].
func (s *Store) SetOpacity(kind model.LayerKind, opacity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[kind]
	if !ok {
		return ErrUnknownLayer
	}
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	st.Opacity = opacity
	return nil
}

// State returns the current state of one layer.
func (s *Store) State(kind model.LayerKind) (model.LayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[kind]
	if !ok {
		return model.LayerState{}, ErrUnknownLayer
	}
	return *st, nil
}

// States returns all layer states in render order.
func (s *Store) States() []model.LayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LayerState, 0, len(s.states))
	for _, kind := range model.LayerKinds() {
		out = append(out, *s.states[kind])
	}
	return out
}

// Snapshot returns a deep copy of the layer data and states.
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := Data{
		Generators:      append([]model.Generator(nil), s.generators...),
		Interconnectors: append([]model.InterconnectorLink(nil), s.interconnectors...),
		GridNodes:       cloneNodes(s.gridNodes),
		CarbonRegions:   append([]model.CarbonRegion(nil), s.carbonRegions...),
		States:          make(map[model.LayerKind]model.LayerState, len(s.states)),
	}
	for k, st := range s.states {
		d.States[k] = *st
	}
	return d
}

// FindEntity locates the entity a selection points at. It returns false when
// the entity is no longer present in the current data.
func (s *Store) FindEntity(sel model.Selection) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch sel.Kind {
	case model.KindGenerator:
		for _, g := range s.generators {
			if g.ID == sel.ID {
				return g, true
			}
		}
	case model.KindInterconnector:
		for _, l := range s.interconnectors {
			if l.ID == sel.ID {
				return l, true
			}
		}
	case model.KindGridNode:
		for _, n := range s.gridNodes {
			if n.ID == sel.ID {
				return n, true
			}
		}
	}
	return nil, false
}

func cloneNodes(nodes []model.GridNode) []model.GridNode {
	return append([]model.GridNode(nil), nodes...)
}
