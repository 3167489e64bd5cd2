package overlay

import "github.com/gridlens/gridlens/core/model"

// Violation records an upstream record that broke the feed contract and was
// excluded from its layer.
type Violation struct {
	Layer  model.LayerKind `json:"layer"`
	ID     string          `json:"id"`
	Reason string          `json:"reason"`
}

// Document is one decoded overlay state fetch. A nil layer slice means the
// feed omitted that layer; an empty non-nil slice is a valid empty layer.
// Present marks which layers the document carried.
type Document struct {
	Generators      []model.Generator
	Interconnectors []model.InterconnectorLink
	GridNodes       []model.GridNode
	CarbonRegions   []model.CarbonRegion
	Present         map[model.LayerKind]bool
	Violations      []Violation
}
