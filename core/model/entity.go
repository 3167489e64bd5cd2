package model

// Generator is a transmission-connected generating unit. BidsMW and
// OffersMW are accepted balancing-mechanism volumes and stay zero for
// units outside the mechanism.
type Generator struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Fuel       FuelKind `json:"fuel_type"`
	Coords     Coords   `json:"coords"`
	CapacityMW float64  `json:"capacity_mw"`
	OutputMW   float64  `json:"output_mw"`
	BidsMW     float64  `json:"bids_mw,omitempty"`
	OffersMW   float64  `json:"offers_mw,omitempty"`
}

// CapacityFactor returns current output as a share of capacity. Units with an
// unknown or zero capacity report 0 rather than dividing by zero.
func (g Generator) CapacityFactor() float64 {
	if g.CapacityMW <= 0 {
		return 0
	}
	return g.OutputMW / g.CapacityMW
}

// FlowDirection classifies interconnector flow relative to GB.
type FlowDirection string

const (
	FlowImport FlowDirection = "import"
	FlowExport FlowDirection = "export"
	FlowIdle   FlowDirection = "idle"
)

// InterconnectorLink is a cross-border HVDC link. FlowMW is signed, positive
// values are imports into GB.
type InterconnectorLink struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Coords      Coords  `json:"coords"`
	CapacityMW  float64 `json:"capacity_mw"`
	FlowMW      float64 `json:"flow_mw"`
}

// Direction returns the flow direction implied by the signed flow value.
func (l InterconnectorLink) Direction() FlowDirection {
	switch {
	case l.FlowMW > 0:
		return FlowImport
	case l.FlowMW < 0:
		return FlowExport
	default:
		return FlowIdle
	}
}

// NodeKind identifies the substation tier of a grid node.
type NodeKind string

const (
	NodeGSP NodeKind = "gsp"
	NodeBSP NodeKind = "bsp"
)

// HeadroomBand is a coarse classification of spare network capacity.
type HeadroomBand string

const (
	HeadroomHigh   HeadroomBand = "high"
	HeadroomMedium HeadroomBand = "medium"
	HeadroomLow    HeadroomBand = "low"
)

// GridNode is a grid supply or bulk supply point.
type GridNode struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       NodeKind `json:"node_type"`
	Coords     Coords   `json:"coords"`
	VoltageKV  float64  `json:"voltage_kv"`
	HeadroomMW float64  `json:"headroom_mw"`
	LoadMW     float64  `json:"load_mw"`
}

// Headroom classifies spare capacity. Strictly above 100 MW is high,
// strictly above 50 MW is medium, everything else is low: 51 is medium,
// 50 is low.
func (n GridNode) Headroom() HeadroomBand {
	switch {
	case n.HeadroomMW > 100:
		return HeadroomHigh
	case n.HeadroomMW > 50:
		return HeadroomMedium
	default:
		return HeadroomLow
	}
}
