// Package stats derives view-model numbers from the aggregated snapshot:
// fuel mix shares, net flow classification, regional roll-ups and locally
// derived flexibility opportunities.
package stats

import (
	"fmt"
	"sort"

	"github.com/gridlens/gridlens/core/model"
)

// NetFlow classifies the overall cross-border position.
type NetFlow string

const (
	NetImporting NetFlow = "importing"
	NetExporting NetFlow = "exporting"
	NetBalanced  NetFlow = "balanced"
)

// FuelShare is one fuel's contribution to the generation mix.
type FuelShare struct {
	Fuel    model.FuelKind `json:"fuel"`
	MW      float64        `json:"mw"`
	Percent float64        `json:"percent"`
}

// Summary is the derived view of one snapshot.
type Summary struct {
	TotalGenerationMW float64             `json:"total_generation_mw"`
	Mix               []FuelShare         `json:"mix"`
	NetFlow           NetFlow             `json:"net_flow"`
	NetImportsMW      float64             `json:"net_imports_mw"`
	CarbonIntensity   float64             `json:"carbon_intensity"`
	CarbonIndex       model.IntensityBand `json:"carbon_index"`
	Insight           string              `json:"insight"`
}

// Summarize computes the derived view of a snapshot. Shares are ranked by
// megawatts descending; fuels with zero output are omitted. A zero total
// yields an empty mix rather than NaN shares.
func Summarize(snap model.AggregatedSnapshot) Summary {
	sum := Summary{
		TotalGenerationMW: snap.Generation.TotalMW,
		NetImportsMW:      snap.Interconnectors.NetImportsMW,
		CarbonIntensity:   snap.Carbon.IntensityGCO2KWh,
		CarbonIndex:       snap.Carbon.Index,
		Insight:           Insight(snap),
	}

	switch {
	case snap.Interconnectors.NetImportsMW > 0:
		sum.NetFlow = NetImporting
	case snap.Interconnectors.NetImportsMW < 0:
		sum.NetFlow = NetExporting
	default:
		sum.NetFlow = NetBalanced
	}

	total := snap.Generation.TotalMW
	if total <= 0 {
		return sum
	}
	for fuel, mw := range snap.Generation.ByFuel {
		if mw <= 0 {
			continue
		}
		sum.Mix = append(sum.Mix, FuelShare{Fuel: fuel, MW: mw, Percent: mw / total * 100})
	}
	sort.Slice(sum.Mix, func(i, j int) bool {
		if sum.Mix[i].MW != sum.Mix[j].MW {
			return sum.Mix[i].MW > sum.Mix[j].MW
		}
		return sum.Mix[i].Fuel < sum.Mix[j].Fuel
	})
	return sum
}

// Insight produces a one-line reading of current grid conditions, joining
// whichever observations apply with " | ".
func Insight(snap model.AggregatedSnapshot) string {
	var parts []string

	switch snap.Carbon.Index {
	case model.BandVeryLow:
		parts = append(parts, "Grid is very clean - good time for flexible loads")
	case model.BandVeryHigh:
		parts = append(parts, "High carbon period - consider load shifting")
	}

	if p := snap.Markets.AgilePriceGBP; p != 0 {
		if p < 10 {
			parts = append(parts, fmt.Sprintf("Agile price low at %gp/kWh", p))
		} else if p > 30 {
			parts = append(parts, fmt.Sprintf("Agile price elevated at %gp/kWh", p))
		}
	}

	total := snap.Generation.TotalMW
	if total < 1 {
		total = 1
	}
	if pct := snap.Generation.ByFuel[model.FuelWind] / total * 100; pct > 40 {
		parts = append(parts, fmt.Sprintf("High wind generation (%.0f%% of mix)", pct))
	}

	if len(parts) == 0 {
		return "Normal grid conditions"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}
