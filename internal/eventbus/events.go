package eventbus

import (
	"time"

	"github.com/gridlens/gridlens/core/model"
)

// LayerUpdated is published after a layer receives live feed data.
type LayerUpdated struct {
	Layer model.LayerKind
	Size  int
	At    time.Time
}

// SnapshotUpdated is published after the aggregated snapshot document is
// applied.
type SnapshotUpdated struct {
	Snapshot model.AggregatedSnapshot
}

// OpportunitiesUpdated is published when the opportunity set changes,
// whether from the feed or from local derivation.
type OpportunitiesUpdated struct {
	Opportunities []model.FlexibilityOpportunity
	Derived       bool
}

// SourceOffline is published when upstream connectivity flips. Connected is
// false when every document failed its last fetch.
type SourceOffline struct {
	Connected bool
	At        time.Time
}
