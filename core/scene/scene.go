// Package scene turns layer data into a drawable scene description. Building
// a scene is pure: the same store snapshot, selection and viewport always
// produce the same scene.
package scene

import (
	"fmt"
	"math"

	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/projection"
)

// Generator marker sizes scale with the square root of capacity between
// these bounds so large plants stand out without drowning the map.
const (
	minMarkerSize = 6
	maxMarkerSize = 22

	minLineWidth = 1
	maxLineWidth = 8
	// Line width reaches its maximum at this absolute flow.
	fullLineFlowMW = 2000
)

// Marker is a point entity on the scene. Grid-node markers carry their
// headroom band and its color so spare capacity is visible on the map.
type Marker struct {
	Layer     model.LayerKind  `json:"layer"`
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Pos       projection.Point `json:"pos"`
	Color     string           `json:"color"`
	Size      float64          `json:"size"`
	Opacity   float64          `json:"opacity"`
	Band      string           `json:"band,omitempty"`
	BandColor string           `json:"band_color,omitempty"`
	Selected  bool             `json:"selected,omitempty"`
}

// Line is an interconnector flow on the scene.
type Line struct {
	Layer    model.LayerKind  `json:"layer"`
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	From     projection.Point `json:"from"`
	To       projection.Point `json:"to"`
	Color    string           `json:"color"`
	Width    float64          `json:"width"`
	Opacity  float64          `json:"opacity"`
	Selected bool             `json:"selected,omitempty"`
}

// Area is a carbon intensity region rendered around its centroid.
type Area struct {
	Layer   model.LayerKind  `json:"layer"`
	Name    string           `json:"name"`
	Pos     projection.Point `json:"pos"`
	Color   string           `json:"color"`
	Fill    string           `json:"fill"`
	Opacity float64          `json:"opacity"`
}

// Dropped records an entity left out of the scene because of a data
// problem, so bad feed records stay visible instead of vanishing.
type Dropped struct {
	Layer  model.LayerKind `json:"layer"`
	ID     string          `json:"id"`
	Reason string          `json:"reason"`
}

// Scene is the full drawable description for one frame.
type Scene struct {
	Projection string              `json:"projection"`
	Viewport   projection.Viewport `json:"viewport"`
	Areas      []Area              `json:"areas"`
	Lines      []Line              `json:"lines"`
	Markers    []Marker            `json:"markers"`
	Dropped    []Dropped           `json:"dropped,omitempty"`
}

// Build constructs the scene from a store snapshot. Hidden layers and
// entities with no usable coordinates are skipped. The selection, if any,
// flags its entity.
func Build(data overlay.Data, sel *model.Selection, proj projection.Projector, vp projection.Viewport) Scene {
	sc := Scene{Projection: proj.Name(), Viewport: vp}

	if st, ok := data.States[model.LayerCarbon]; ok && st.Visible {
		for _, r := range data.CarbonRegions {
			if !r.Coords.Placeable() {
				continue
			}
			style := CarbonStyle(r.Band)
			sc.Areas = append(sc.Areas, Area{
				Layer:   model.LayerCarbon,
				Name:    r.Name,
				Pos:     proj.Project(r.Coords, vp),
				Color:   style.Color,
				Fill:    style.Fill,
				Opacity: st.Opacity,
			})
		}
	}

	if st, ok := data.States[model.LayerInterconnectors]; ok && st.Visible {
		for _, l := range data.Interconnectors {
			from := l.Coords
			if !from.Placeable() {
				continue
			}
			to, ok := overlay.CountryAnchor(l.CountryCode)
			if !ok {
				sc.Dropped = append(sc.Dropped, Dropped{
					Layer:  model.LayerInterconnectors,
					ID:     l.ID,
					Reason: fmt.Sprintf("no anchor for country %q", l.CountryCode),
				})
				continue
			}
			sc.Lines = append(sc.Lines, Line{
				Layer:    model.LayerInterconnectors,
				ID:       l.ID,
				Label:    l.Name,
				From:     proj.Project(from, vp),
				To:       proj.Project(to, vp),
				Color:    FlowColor(l.Direction()),
				Width:    lineWidth(l.FlowMW),
				Opacity:  st.Opacity,
				Selected: isSelected(sel, model.KindInterconnector, l.ID),
			})
		}
	}

	if st, ok := data.States[model.LayerGridNodes]; ok && st.Visible {
		for _, n := range data.GridNodes {
			if !n.Coords.Placeable() {
				continue
			}
			band := n.Headroom()
			sc.Markers = append(sc.Markers, Marker{
				Layer:     model.LayerGridNodes,
				ID:        n.ID,
				Label:     n.Name,
				Pos:       proj.Project(n.Coords, vp),
				Color:     NodeColor(n.Kind),
				Size:      NodeSize(n.Kind),
				Opacity:   st.Opacity,
				Band:      string(band),
				BandColor: HeadroomColor(band),
				Selected:  isSelected(sel, model.KindGridNode, n.ID),
			})
		}
	}

	if st, ok := data.States[model.LayerGenerators]; ok && st.Visible {
		for _, g := range data.Generators {
			if !g.Coords.Placeable() {
				continue
			}
			sc.Markers = append(sc.Markers, Marker{
				Layer:    model.LayerGenerators,
				ID:       g.ID,
				Label:    g.Name,
				Pos:      proj.Project(g.Coords, vp),
				Color:    FuelColor(g.Fuel),
				Size:     markerSize(g.CapacityMW),
				Opacity:  st.Opacity,
				Selected: isSelected(sel, model.KindGenerator, g.ID),
			})
		}
	}

	return sc
}

func isSelected(sel *model.Selection, kind model.EntityKind, id string) bool {
	return sel != nil && sel.Kind == kind && sel.ID == id
}

func markerSize(capacityMW float64) float64 {
	if capacityMW <= 0 {
		return minMarkerSize
	}
	// sqrt scaling, 100 MW -> ~8, 2 GW -> ~15
	size := minMarkerSize + math.Sqrt(capacityMW)/5
	return math.Min(size, maxMarkerSize)
}

func lineWidth(flowMW float64) float64 {
	w := minLineWidth + math.Abs(flowMW)/fullLineFlowMW*(maxLineWidth-minLineWidth)
	return math.Min(w, maxLineWidth)
}
