package stats

import (
	"fmt"
	"sort"

	"github.com/gridlens/gridlens/core/model"
)

// Derivation thresholds, tuned against GB-scale numbers.
const (
	highWindMW    = 10000
	highGasMW     = 15000
	highBidMW     = 1000
	cheapAgileGBP = 5
)

// DeriveOpportunities computes flexibility opportunities from a snapshot
// when the upstream feed does not supply them. Results are marked Derived
// and sorted by confidence descending.
func DeriveOpportunities(snap model.AggregatedSnapshot) []model.FlexibilityOpportunity {
	var opps []model.FlexibilityOpportunity

	if snap.Carbon.Index == model.BandVeryLow || snap.Carbon.Index == model.BandLow {
		conf := 0.7
		if snap.Carbon.Index == model.BandVeryLow {
			conf = 0.9
		}
		opps = append(opps, model.FlexibilityOpportunity{
			Type:       "carbon_optimized",
			Action:     model.ActionIncreaseLoad,
			Reason:     fmt.Sprintf("Low carbon intensity (%g gCO2/kWh)", snap.Carbon.IntensityGCO2KWh),
			Confidence: conf,
		})
	}

	if wind := snap.Generation.ByFuel[model.FuelWind]; wind > highWindMW {
		opps = append(opps, model.FlexibilityOpportunity{
			Type:       "price_optimized",
			Action:     model.ActionIncreaseLoad,
			Reason:     fmt.Sprintf("High wind generation (%.0f MW)", wind),
			Confidence: 0.75,
		})
	}

	if gas := snap.Generation.ByFuel[model.FuelGas]; gas > highGasMW {
		opps = append(opps, model.FlexibilityOpportunity{
			Type:       "system_support",
			Action:     model.ActionReduceLoad,
			Reason:     fmt.Sprintf("High gas dependency (%.0f MW)", gas),
			Confidence: 0.65,
		})
	}

	if snap.Balancing.BidsMW > highBidMW {
		opps = append(opps, model.FlexibilityOpportunity{
			Type:       "balancing_service",
			Action:     model.ActionOfferDSR,
			Reason:     fmt.Sprintf("High bid volume (%.0f MW)", snap.Balancing.BidsMW),
			Confidence: 0.6,
		})
	}

	if p := snap.Markets.AgilePriceGBP; p != 0 && p < cheapAgileGBP {
		opps = append(opps, model.FlexibilityOpportunity{
			Type:       "cost_saving",
			Action:     model.ActionChargeStorage,
			Reason:     fmt.Sprintf("Very low Agile price (%.1fp/kWh)", p),
			Confidence: 0.85,
		})
	}

	for i := range opps {
		opps[i].Derived = true
	}
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Confidence > opps[j].Confidence
	})
	return opps
}
