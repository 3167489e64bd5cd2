package upstream

import (
	"encoding/json"
	"time"

	"github.com/gridlens/gridlens/core/model"
)

type overlayStateDTO struct {
	Layers map[string]*layerDTO `json:"layers"`
}

type layerDTO struct {
	Name        string            `json:"name"`
	Visible     bool              `json:"visible"`
	Opacity     float64           `json:"opacity"`
	Data        []json.RawMessage `json:"data"`
	LastUpdated *time.Time        `json:"last_updated"`
}

// entityDTO is the union of all entity record fields. Marker fields are
// pointers so presence can be told apart from a zero value.
type entityDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Fuel        *string      `json:"fuel_type"`
	NodeKind    *string      `json:"node_type"`
	CountryCode *string      `json:"country_code"`
	Coords      model.Coords `json:"coords"`
	CapacityMW  float64      `json:"capacity_mw"`
	OutputMW    float64      `json:"output_mw"`
	BidsMW      float64      `json:"bids_mw"`
	OffersMW    float64      `json:"offers_mw"`
	FlowMW      float64      `json:"flow_mw"`
	VoltageKV   float64      `json:"voltage_kv"`
	HeadroomMW  float64      `json:"headroom_mw"`
	LoadMW      float64      `json:"load_mw"`
	RegionID    int          `json:"region_id"`
	Intensity   float64      `json:"intensity"`
	Index       string       `json:"index"`
}

type snapshotDTO struct {
	Timestamp  time.Time `json:"timestamp"`
	Generation struct {
		TotalMW        float64            `json:"total_mw"`
		ByFuel         map[string]float64 `json:"by_fuel"`
		GeneratorCount int                `json:"generator_count"`
	} `json:"generation"`
	Demand          model.DemandSummary `json:"demand"`
	Interconnectors struct {
		NetImportsMW float64            `json:"net_imports_mw"`
		ByCountry    map[string]float64 `json:"by_country"`
	} `json:"interconnectors"`
	Carbon struct {
		IntensityGCO2KWh float64 `json:"intensity_gco2_kwh"`
		Index            string  `json:"index"`
	} `json:"carbon"`
	Markets   model.MarketSummary    `json:"markets"`
	Balancing model.BalancingSummary `json:"balancing"`
}

func (d snapshotDTO) toModel() model.AggregatedSnapshot {
	snap := model.AggregatedSnapshot{
		Timestamp: d.Timestamp,
		Generation: model.GenerationSummary{
			TotalMW:        d.Generation.TotalMW,
			ByFuel:         make(map[model.FuelKind]float64, len(d.Generation.ByFuel)),
			GeneratorCount: d.Generation.GeneratorCount,
		},
		Demand: d.Demand,
		Interconnectors: model.InterconnectSummary{
			NetImportsMW: d.Interconnectors.NetImportsMW,
			ByCountry:    d.Interconnectors.ByCountry,
		},
		Markets:   d.Markets,
		Balancing: d.Balancing,
	}
	// Unknown fuels fold into other instead of being dropped.
	for fuel, mw := range d.Generation.ByFuel {
		snap.Generation.ByFuel[model.ParseFuelKind(fuel)] += mw
	}
	snap.Carbon.IntensityGCO2KWh = d.Carbon.IntensityGCO2KWh
	if band, ok := model.ParseIntensityBand(d.Carbon.Index); ok {
		snap.Carbon.Index = band
	} else {
		snap.Carbon.Index = model.BandForIntensity(d.Carbon.IntensityGCO2KWh)
	}
	return snap
}
