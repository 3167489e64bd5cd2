package model

import "time"

// LayerKind identifies one of the overlay layers.
type LayerKind string

const (
	LayerGenerators      LayerKind = "generators"
	LayerInterconnectors LayerKind = "interconnectors"
	LayerGridNodes       LayerKind = "grid_nodes"
	LayerCarbon          LayerKind = "carbon_intensity"
)

// LayerKinds lists the layers in render order, bottom first.
func LayerKinds() []LayerKind {
	return []LayerKind{LayerCarbon, LayerGridNodes, LayerInterconnectors, LayerGenerators}
}

// ParseLayerKind validates a layer name from the API or a feed document.
func ParseLayerKind(s string) (LayerKind, bool) {
	switch LayerKind(s) {
	case LayerGenerators, LayerInterconnectors, LayerGridNodes, LayerCarbon:
		return LayerKind(s), true
	}
	return "", false
}

// LayerState carries the presentation state of one layer. Live distinguishes
// a layer that has received feed data, even an empty set, from one still on
// its configured defaults.
type LayerState struct {
	Kind      LayerKind `json:"kind"`
	Visible   bool      `json:"visible"`
	Opacity   float64   `json:"opacity"`
	Live      bool      `json:"live"`
	UpdatedAt time.Time `json:"updated_at"`
}
