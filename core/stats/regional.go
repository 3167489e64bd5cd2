package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridlens/gridlens/core/model"
)

// RegionalCarbon is the roll-up of the regional carbon intensity layer.
type RegionalCarbon struct {
	Regions  int     `json:"regions"`
	MeanG    float64 `json:"mean_gco2_kwh"`
	StdDevG  float64 `json:"stddev_gco2_kwh"`
	Cleanest string  `json:"cleanest"`
	Dirtiest string  `json:"dirtiest"`
}

// SummarizeRegions computes mean and spread of regional intensities and
// names the extremes. Sorting uses the numeric intensity, never the band.
func SummarizeRegions(regions []model.CarbonRegion) RegionalCarbon {
	out := RegionalCarbon{Regions: len(regions)}
	if len(regions) == 0 {
		return out
	}

	sorted := append([]model.CarbonRegion(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Intensity < sorted[j].Intensity
	})
	out.Cleanest = sorted[0].Name
	out.Dirtiest = sorted[len(sorted)-1].Name

	values := make([]float64, len(sorted))
	for i, r := range sorted {
		values[i] = r.Intensity
	}
	out.MeanG = stat.Mean(values, nil)
	if len(values) > 1 {
		out.StdDevG = stat.StdDev(values, nil)
	}
	return out
}
