package model

import "strings"

// FuelKind identifies the primary fuel of a generator.
type FuelKind string

const (
	FuelGas     FuelKind = "gas"
	FuelCoal    FuelKind = "coal"
	FuelNuclear FuelKind = "nuclear"
	FuelWind    FuelKind = "wind"
	FuelSolar   FuelKind = "solar"
	FuelHydro   FuelKind = "hydro"
	FuelBiomass FuelKind = "biomass"
	FuelBattery FuelKind = "battery"
	FuelOther   FuelKind = "other"
)

var knownFuels = map[FuelKind]struct{}{
	FuelGas: {}, FuelCoal: {}, FuelNuclear: {}, FuelWind: {},
	FuelSolar: {}, FuelHydro: {}, FuelBiomass: {}, FuelBattery: {},
	FuelOther: {},
}

// ParseFuelKind normalizes a feed fuel string. Unknown fuels map to FuelOther
// so a new upstream fuel type never drops a generator.
func ParseFuelKind(s string) FuelKind {
	k := FuelKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownFuels[k]; ok {
		return k
	}
	return FuelOther
}

// FuelKinds lists all known fuels in display order.
func FuelKinds() []FuelKind {
	return []FuelKind{
		FuelGas, FuelCoal, FuelNuclear, FuelWind, FuelSolar,
		FuelHydro, FuelBiomass, FuelBattery, FuelOther,
	}
}
