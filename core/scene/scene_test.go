package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/projection"
	"github.com/gridlens/gridlens/infra/logger"
)

var testViewport = projection.Viewport{Width: 1000, Height: 800}

func sceneStore() *overlay.Store {
	s := overlay.NewStore(logger.NopLogger{})
	now := time.Now()
	s.ApplyGenerators([]model.Generator{
		{ID: "drax", Name: "Drax", Fuel: model.FuelBiomass, Coords: model.Coords{Lat: 53.74, Lng: -0.99}, CapacityMW: 2600, OutputMW: 1800},
		{ID: "nowhere", Name: "No Coords", Fuel: model.FuelGas, CapacityMW: 400},
	}, now)
	s.ApplyInterconnectors([]model.InterconnectorLink{
		{ID: "ifa", Name: "IFA", CountryCode: "FR", Coords: model.Coords{Lat: 51.10, Lng: 1.16}, CapacityMW: 2000, FlowMW: 1500},
		{ID: "mystery", Name: "Unknown Country", CountryCode: "XX", Coords: model.Coords{Lat: 51.0, Lng: 1.0}},
	}, now)
	s.ApplyGridNodes([]model.GridNode{
		{ID: "beauly", Name: "Beauly GSP", Kind: model.NodeGSP, Coords: model.Coords{Lat: 57.47, Lng: -4.47}, HeadroomMW: 180},
	}, now)
	s.ApplyCarbonRegions([]model.CarbonRegion{
		{ID: 1, Name: "North Scotland", Coords: model.Coords{Lat: 57.5, Lng: -4.0}, Intensity: 40, Band: model.BandVeryLow},
	}, now)
	return s
}

func TestBuildFullScene(t *testing.T) {
	sc := Build(sceneStore().Snapshot(), nil, projection.NewSchematic(), testViewport)

	assert.Equal(t, "schematic", sc.Projection)
	assert.Len(t, sc.Areas, 1)
	assert.Len(t, sc.Lines, 1, "links with unknown partner country are skipped")
	require.Len(t, sc.Markers, 2, "unplaceable generator is skipped")

	assert.Equal(t, model.LayerGridNodes, sc.Markers[0].Layer)
	assert.Equal(t, model.LayerGenerators, sc.Markers[1].Layer)
	assert.Equal(t, "#84cc16", sc.Markers[1].Color, "biomass color")

	line := sc.Lines[0]
	assert.Equal(t, "#22c55e", line.Color, "importing link is green")
	assert.Greater(t, line.Width, 1.0)

	area := sc.Areas[0]
	assert.Equal(t, "#22c55e", area.Color)
	assert.Equal(t, "#dcfce7", area.Fill)
}

func TestBuildReportsDroppedLinks(t *testing.T) {
	sc := Build(sceneStore().Snapshot(), nil, projection.NewSchematic(), testViewport)

	require.Len(t, sc.Dropped, 1)
	d := sc.Dropped[0]
	assert.Equal(t, model.LayerInterconnectors, d.Layer)
	assert.Equal(t, "mystery", d.ID)
	assert.Contains(t, d.Reason, `"XX"`)
}

func TestGridNodeMarkersCarryHeadroomBand(t *testing.T) {
	s := overlay.NewStore(logger.NopLogger{})
	now := time.Now()
	s.ApplyGridNodes([]model.GridNode{
		{ID: "high", Kind: model.NodeGSP, Coords: model.Coords{Lat: 55, Lng: -3}, HeadroomMW: 180},
		{ID: "medium", Kind: model.NodeGSP, Coords: model.Coords{Lat: 54, Lng: -2}, HeadroomMW: 80},
		{ID: "low", Kind: model.NodeGSP, Coords: model.Coords{Lat: 53, Lng: -1}, HeadroomMW: 50},
	}, now)

	sc := Build(s.Snapshot(), nil, projection.NewSchematic(), testViewport)

	bands := map[string]Marker{}
	for _, m := range sc.Markers {
		if m.Layer == model.LayerGridNodes {
			bands[m.ID] = m
		}
	}
	require.Len(t, bands, 3)
	assert.Equal(t, "high", bands["high"].Band)
	assert.Equal(t, "#22c55e", bands["high"].BandColor)
	assert.Equal(t, "medium", bands["medium"].Band)
	assert.Equal(t, "#f59e0b", bands["medium"].BandColor)
	assert.Equal(t, "low", bands["low"].Band)
	assert.Equal(t, "#ef4444", bands["low"].BandColor)
}

func TestBuildIsDeterministic(t *testing.T) {
	data := sceneStore().Snapshot()
	a := Build(data, nil, projection.NewSchematic(), testViewport)
	b := Build(data, nil, projection.NewSchematic(), testViewport)
	assert.Equal(t, a, b)
}

func TestBuildSkipsHiddenLayers(t *testing.T) {
	s := sceneStore()
	require.NoError(t, s.SetVisible(model.LayerGenerators, false))
	require.NoError(t, s.SetVisible(model.LayerCarbon, false))

	sc := Build(s.Snapshot(), nil, projection.NewSchematic(), testViewport)
	assert.Empty(t, sc.Areas)
	for _, m := range sc.Markers {
		assert.NotEqual(t, model.LayerGenerators, m.Layer)
	}
}

func TestBuildFlagsSelection(t *testing.T) {
	sel := &model.Selection{Kind: model.KindGenerator, ID: "drax"}
	sc := Build(sceneStore().Snapshot(), sel, projection.NewSchematic(), testViewport)

	var selected int
	for _, m := range sc.Markers {
		if m.Selected {
			selected++
			assert.Equal(t, "drax", m.ID)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestBuildAppliesOpacity(t *testing.T) {
	s := sceneStore()
	require.NoError(t, s.SetOpacity(model.LayerGenerators, 0.4))
	sc := Build(s.Snapshot(), nil, projection.NewSchematic(), testViewport)
	for _, m := range sc.Markers {
		if m.Layer == model.LayerGenerators {
			assert.Equal(t, 0.4, m.Opacity)
		}
	}
}

func TestMarkerAndLineScaling(t *testing.T) {
	assert.Equal(t, float64(minMarkerSize), markerSize(0))
	assert.Equal(t, float64(minMarkerSize), markerSize(-5))
	assert.Less(t, markerSize(100), markerSize(2000))
	assert.Equal(t, float64(maxMarkerSize), markerSize(1e9))

	assert.Equal(t, float64(minLineWidth), lineWidth(0))
	assert.Equal(t, lineWidth(500), lineWidth(-500), "width uses absolute flow")
	assert.Equal(t, float64(maxLineWidth), lineWidth(1e6))
}
