package model

import "strings"

// IntensityBand is the upstream carbon intensity index. The feed band is
// authoritative for display; the numeric intensity drives sorting and
// statistics.
type IntensityBand string

const (
	BandVeryLow  IntensityBand = "very low"
	BandLow      IntensityBand = "low"
	BandModerate IntensityBand = "moderate"
	BandHigh     IntensityBand = "high"
	BandVeryHigh IntensityBand = "very high"
)

// ParseIntensityBand normalizes a feed band string.
func ParseIntensityBand(s string) (IntensityBand, bool) {
	b := IntensityBand(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BandVeryLow, BandLow, BandModerate, BandHigh, BandVeryHigh:
		return b, true
	}
	return "", false
}

// BandForIntensity maps a gCO2/kWh value onto the published index thresholds.
// Used only to detect feed band/value disagreement, never to override the
// feed band.
func BandForIntensity(gco2kwh float64) IntensityBand {
	switch {
	case gco2kwh < 50:
		return BandVeryLow
	case gco2kwh < 150:
		return BandLow
	case gco2kwh < 250:
		return BandModerate
	case gco2kwh < 350:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// CarbonRegion is a DNO region with its current carbon intensity.
type CarbonRegion struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Coords    Coords        `json:"coords"`
	Intensity float64       `json:"intensity"`
	Band      IntensityBand `json:"index"`
}

// BandAgreesWithIntensity reports whether the feed band matches the band the
// numeric value implies. A mismatch is a collaborator contract oddity worth
// logging, not an error.
func (r CarbonRegion) BandAgreesWithIntensity() bool {
	return r.Band == BandForIntensity(r.Intensity)
}
