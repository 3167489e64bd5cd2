package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens/gridlens/core/model"
)

func baseSnapshot() model.AggregatedSnapshot {
	return model.AggregatedSnapshot{
		Generation: model.GenerationSummary{
			TotalMW: 30000,
			ByFuel: map[model.FuelKind]float64{
				model.FuelGas:     12000,
				model.FuelWind:    9000,
				model.FuelNuclear: 6000,
				model.FuelSolar:   3000,
				model.FuelCoal:    0,
			},
		},
		Interconnectors: model.InterconnectSummary{NetImportsMW: 1500},
		Carbon:          model.CarbonSummary{IntensityGCO2KWh: 180, Index: model.BandModerate},
		Markets:         model.MarketSummary{AgilePriceGBP: 15},
	}
}

func TestSummarizeMixRankedDescending(t *testing.T) {
	sum := Summarize(baseSnapshot())

	require.Len(t, sum.Mix, 4, "zero-output fuels are omitted")
	assert.Equal(t, model.FuelGas, sum.Mix[0].Fuel)
	assert.Equal(t, model.FuelWind, sum.Mix[1].Fuel)
	assert.InDelta(t, 40, sum.Mix[0].Percent, 1e-9)

	var total float64
	for _, s := range sum.Mix {
		total += s.Percent
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestSummarizeNetFlow(t *testing.T) {
	snap := baseSnapshot()
	assert.Equal(t, NetImporting, Summarize(snap).NetFlow)

	snap.Interconnectors.NetImportsMW = -800
	assert.Equal(t, NetExporting, Summarize(snap).NetFlow)

	snap.Interconnectors.NetImportsMW = 0
	assert.Equal(t, NetBalanced, Summarize(snap).NetFlow)
}

func TestSummarizeZeroGeneration(t *testing.T) {
	snap := baseSnapshot()
	snap.Generation.TotalMW = 0
	sum := Summarize(snap)
	assert.Empty(t, sum.Mix)
}

func TestInsight(t *testing.T) {
	snap := baseSnapshot()
	assert.Equal(t, "Normal grid conditions", Insight(snap))

	snap.Carbon.Index = model.BandVeryLow
	assert.Contains(t, Insight(snap), "very clean")

	snap.Markets.AgilePriceGBP = 4
	got := Insight(snap)
	assert.Contains(t, got, "Agile price low")
	assert.Contains(t, got, " | ")

	windy := baseSnapshot()
	windy.Generation.ByFuel[model.FuelWind] = 15000
	assert.Contains(t, Insight(windy), "High wind generation (50% of mix)")
}

func TestDeriveOpportunities(t *testing.T) {
	snap := baseSnapshot()
	snap.Carbon.Index = model.BandVeryLow
	snap.Carbon.IntensityGCO2KWh = 40
	snap.Generation.ByFuel[model.FuelWind] = 12000
	snap.Generation.ByFuel[model.FuelGas] = 16000
	snap.Balancing.BidsMW = 1500
	snap.Markets.AgilePriceGBP = 3.2

	opps := DeriveOpportunities(snap)
	require.Len(t, opps, 5)

	for i := 1; i < len(opps); i++ {
		assert.GreaterOrEqual(t, opps[i-1].Confidence, opps[i].Confidence)
	}
	assert.Equal(t, model.ActionIncreaseLoad, opps[0].Action)
	assert.InDelta(t, 0.9, opps[0].Confidence, 1e-9)
	for _, o := range opps {
		assert.True(t, o.Derived)
		assert.NotEmpty(t, o.Type)
		assert.NotEmpty(t, o.Reason)
	}
}

func TestDeriveOpportunitiesQuietGrid(t *testing.T) {
	snap := baseSnapshot()
	assert.Empty(t, DeriveOpportunities(snap))
}

func TestDeriveOpportunitiesLowBandConfidence(t *testing.T) {
	snap := baseSnapshot()
	snap.Carbon.Index = model.BandLow
	opps := DeriveOpportunities(snap)
	require.Len(t, opps, 1)
	assert.InDelta(t, 0.7, opps[0].Confidence, 1e-9)
}

func TestSummarizeRegions(t *testing.T) {
	regions := []model.CarbonRegion{
		{Name: "North Scotland", Intensity: 40},
		{Name: "London", Intensity: 220},
		{Name: "South Wales", Intensity: 130},
	}
	rc := SummarizeRegions(regions)
	assert.Equal(t, 3, rc.Regions)
	assert.InDelta(t, 130, rc.MeanG, 1e-9)
	assert.Greater(t, rc.StdDevG, 0.0)
	assert.Equal(t, "North Scotland", rc.Cleanest)
	assert.Equal(t, "London", rc.Dirtiest)
}

func TestSummarizeRegionsEmpty(t *testing.T) {
	rc := SummarizeRegions(nil)
	assert.Equal(t, 0, rc.Regions)
	assert.Equal(t, 0.0, rc.MeanG)
}
