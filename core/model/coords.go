package model

// Coords is a WGS84 latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Placeable reports whether the entity can be drawn on a map. Upstream feeds
// use the zero pair for entities with no known location.
func (c Coords) Placeable() bool {
	return c.Lat != 0 || c.Lng != 0
}
