// Package projection converts WGS84 coordinates into overlay positions.
// Two strategies exist: a schematic affine projection onto a fixed canvas
// and a geographic pass-through for real-map renderers that project
// themselves.
package projection

import "github.com/gridlens/gridlens/core/model"

// Point is a position in the target coordinate space. For the schematic
// projector it is canvas pixels, for the geographic projector it is raw
// lng/lat.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the target canvas size in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is the geographic frame the schematic projection maps onto the
// viewport.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// GBBounds frames Great Britain with margin for offshore assets and
// interconnector landing points.
var GBBounds = Bounds{North: 60.0, South: 49.5, East: 2.0, West: -8.0}

// Projector maps a coordinate into the target space.
type Projector interface {
	Project(c model.Coords, vp Viewport) Point
	Name() string
}

// Schematic maps coordinates linearly onto the viewport. Points outside the
// bounds project outside the canvas rather than clamping, so off-frame
// entities stay geometrically consistent.
type Schematic struct {
	Bounds Bounds
}

// NewSchematic returns a schematic projector over the GB frame.
func NewSchematic() Schematic {
	return Schematic{Bounds: GBBounds}
}

func (s Schematic) Project(c model.Coords, vp Viewport) Point {
	lngSpan := s.Bounds.East - s.Bounds.West
	latSpan := s.Bounds.North - s.Bounds.South
	return Point{
		X: (c.Lng - s.Bounds.West) / lngSpan * vp.Width,
		Y: (s.Bounds.North - c.Lat) / latSpan * vp.Height,
	}
}

func (s Schematic) Name() string { return "schematic" }

// Geographic passes coordinates through unchanged for renderers that carry
// their own map projection.
type Geographic struct{}

func (Geographic) Project(c model.Coords, _ Viewport) Point {
	return Point{X: c.Lng, Y: c.Lat}
}

func (Geographic) Name() string { return "geographic" }

// ForName selects a projector by strategy name, defaulting to schematic.
func ForName(name string) Projector {
	if name == "geographic" {
		return Geographic{}
	}
	return NewSchematic()
}
