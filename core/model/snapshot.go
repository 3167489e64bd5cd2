package model

import "time"

// GenerationSummary totals transmission generation by fuel.
type GenerationSummary struct {
	TotalMW        float64              `json:"total_mw"`
	ByFuel         map[FuelKind]float64 `json:"by_fuel"`
	GeneratorCount int                  `json:"generator_count"`
}

// DemandSummary carries national demand and embedded estimates.
type DemandSummary struct {
	TotalMW         float64 `json:"total_mw"`
	EmbeddedWindMW  float64 `json:"embedded_wind_mw"`
	EmbeddedSolarMW float64 `json:"embedded_solar_mw"`
}

// InterconnectSummary totals cross-border flows. NetImportsMW is signed,
// positive means GB is importing overall.
type InterconnectSummary struct {
	NetImportsMW float64            `json:"net_imports_mw"`
	ByCountry    map[string]float64 `json:"by_country"`
}

// CarbonSummary is the national carbon intensity reading.
type CarbonSummary struct {
	IntensityGCO2KWh float64       `json:"intensity_gco2_kwh"`
	Index            IntensityBand `json:"index"`
}

// MarketSummary carries the price signals used by opportunity derivation.
type MarketSummary struct {
	ETSPriceEUR   float64 `json:"ets_price_eur"`
	AgilePriceGBP float64 `json:"agile_price_gbp"`
}

// BalancingSummary totals accepted balancing-mechanism volumes.
type BalancingSummary struct {
	BidsMW   float64 `json:"bids_mw"`
	OffersMW float64 `json:"offers_mw"`
}

// AggregatedSnapshot is the national roll-up document published upstream.
type AggregatedSnapshot struct {
	Timestamp       time.Time           `json:"timestamp"`
	Generation      GenerationSummary   `json:"generation"`
	Demand          DemandSummary       `json:"demand"`
	Interconnectors InterconnectSummary `json:"interconnectors"`
	Carbon          CarbonSummary       `json:"carbon"`
	Markets         MarketSummary       `json:"markets"`
	Balancing       BalancingSummary    `json:"balancing"`
}

// FlexAction is a recommended demand-side response.
type FlexAction string

const (
	ActionIncreaseLoad  FlexAction = "INCREASE_LOAD"
	ActionReduceLoad    FlexAction = "REDUCE_LOAD"
	ActionOfferDSR      FlexAction = "OFFER_DSR"
	ActionChargeStorage FlexAction = "CHARGE_STORAGE"
)

// FlexibilityOpportunity is a ranked demand-side recommendation. Derived is
// set when the engine computed it locally because the upstream feed was
// absent.
type FlexibilityOpportunity struct {
	Type       string     `json:"type"`
	Action     FlexAction `json:"action"`
	Reason     string     `json:"reason"`
	Confidence float64    `json:"confidence"`
	Derived    bool       `json:"derived,omitempty"`
}
