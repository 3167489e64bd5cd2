package scene

import "github.com/gridlens/gridlens/core/model"

// Fuel marker colors, matched to the dashboard palette.
var fuelColors = map[model.FuelKind]string{
	model.FuelGas:     "#ef4444",
	model.FuelCoal:    "#1f2937",
	model.FuelNuclear: "#f59e0b",
	model.FuelWind:    "#10b981",
	model.FuelSolar:   "#fbbf24",
	model.FuelHydro:   "#3b82f6",
	model.FuelBiomass: "#84cc16",
	model.FuelBattery: "#8b5cf6",
	model.FuelOther:   "#6b7280",
}

// FuelColor returns the marker color for a fuel.
func FuelColor(f model.FuelKind) string {
	if c, ok := fuelColors[f]; ok {
		return c
	}
	return fuelColors[model.FuelOther]
}

// FlowColor returns the line color for an interconnector flow direction.
func FlowColor(d model.FlowDirection) string {
	switch d {
	case model.FlowImport:
		return "#22c55e"
	case model.FlowExport:
		return "#ef4444"
	default:
		return "#06b6d4"
	}
}

// BandStyle pairs the stroke and fill colors of a carbon intensity band.
type BandStyle struct {
	Color string
	Fill  string
}

var carbonStyles = map[model.IntensityBand]BandStyle{
	model.BandVeryLow:  {Color: "#22c55e", Fill: "#dcfce7"},
	model.BandLow:      {Color: "#84cc16", Fill: "#ecfccb"},
	model.BandModerate: {Color: "#f59e0b", Fill: "#fef3c7"},
	model.BandHigh:     {Color: "#f97316", Fill: "#ffedd5"},
	model.BandVeryHigh: {Color: "#ef4444", Fill: "#fee2e2"},
}

// CarbonStyle returns the style for a band. The feed band decides the color
// even when it disagrees with the numeric intensity.
func CarbonStyle(b model.IntensityBand) BandStyle {
	if s, ok := carbonStyles[b]; ok {
		return s
	}
	return BandStyle{Color: "#6b7280", Fill: "#f3f4f6"}
}

// HeadroomColor returns the color for a node's spare-capacity band.
// High headroom renders green, medium amber, low red.
func HeadroomColor(b model.HeadroomBand) string {
	switch b {
	case model.HeadroomHigh:
		return "#22c55e"
	case model.HeadroomMedium:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// NodeColor returns the marker color for a grid node tier.
func NodeColor(k model.NodeKind) string {
	switch k {
	case model.NodeGSP:
		return "#3b82f6"
	case model.NodeBSP:
		return "#8b5cf6"
	default:
		return "#6b7280"
	}
}

// NodeSize returns the fixed marker size for a grid node tier.
func NodeSize(k model.NodeKind) float64 {
	switch k {
	case model.NodeGSP:
		return 12
	case model.NodeBSP:
		return 10
	default:
		return 8
	}
}
