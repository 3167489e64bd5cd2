package overlay

import "github.com/gridlens/gridlens/core/model"

// DefaultGridNodes returns the static GSP set served until the live feed
// delivers node data. Coordinates are approximate site locations.
func DefaultGridNodes() []model.GridNode {
	return []model.GridNode{
		gsp("bolney", "Bolney GSP", 50.97, -0.18, 400, 120, 450),
		gsp("bramford", "Bramford GSP", 52.08, 1.08, 400, 85, 380),
		gsp("canterbury", "Canterbury North GSP", 51.28, 1.08, 400, 95, 320),
		gsp("dungeness", "Dungeness GSP", 50.91, 0.96, 400, 45, 1200),
		gsp("grain", "Grain GSP", 51.45, 0.72, 400, 110, 890),
		gsp("kemsley", "Kemsley GSP", 51.35, 0.73, 132, 65, 280),
		gsp("littlebrook", "Littlebrook GSP", 51.45, 0.25, 400, 130, 520),
		gsp("northfleet", "Northfleet East GSP", 51.43, 0.33, 400, 75, 410),
		gsp("sellindge", "Sellindge GSP", 51.10, 0.98, 400, 200, 2000),
		gsp("sizewell", "Sizewell GSP", 52.21, 1.62, 400, 30, 1200),
		gsp("pelham", "Pelham GSP", 51.95, 0.10, 400, 90, 350),
		gsp("rye-house", "Rye House GSP", 51.77, -0.01, 400, 55, 680),
		gsp("sundon", "Sundon GSP", 51.93, -0.46, 400, 70, 290),
		gsp("waltham-cross", "Waltham Cross GSP", 51.69, -0.03, 400, 100, 510),
		gsp("wymondley", "Wymondley GSP", 51.90, -0.22, 132, 40, 180),
		gsp("barking", "Barking GSP", 51.53, 0.08, 400, 85, 720),
		gsp("brimsdown", "Brimsdown GSP", 51.66, -0.03, 132, 55, 340),
		gsp("city-road", "City Road GSP", 51.53, -0.10, 400, 25, 890),
		gsp("hackney", "Hackney GSP", 51.55, -0.06, 132, 35, 420),
		gsp("new-cross", "New Cross GSP", 51.47, -0.04, 132, 45, 380),
		gsp("st-johns-wood", "St Johns Wood GSP", 51.53, -0.17, 400, 30, 650),
		gsp("west-ham", "West Ham GSP", 51.53, 0.00, 132, 60, 490),
		gsp("wimbledon", "Wimbledon GSP", 51.42, -0.21, 132, 75, 380),
		// Scotland
		gsp("beauly", "Beauly GSP", 57.47, -4.47, 275, 180, 890),
		gsp("dounreay", "Dounreay GSP", 58.58, -3.73, 132, 45, 120),
		gsp("keith", "Keith GSP", 57.55, -2.95, 275, 120, 340),
		gsp("kintore", "Kintore GSP", 57.23, -2.35, 275, 95, 450),
		gsp("peterhead", "Peterhead GSP", 57.50, -1.80, 400, 65, 1180),
		gsp("tealing", "Tealing GSP", 56.52, -2.98, 275, 85, 520),
		gsp("westfield", "Westfield GSP", 56.18, -3.33, 275, 70, 380),
		// Wales
		gsp("deeside", "Deeside GSP", 53.22, -3.03, 400, 110, 890),
		gsp("legacy", "Legacy GSP", 53.05, -3.72, 400, 130, 420),
		gsp("pentir", "Pentir GSP", 53.18, -4.18, 400, 95, 680),
		gsp("trawsfynydd", "Trawsfynydd GSP", 52.90, -3.93, 400, 55, 240),
		gsp("wylfa", "Wylfa GSP", 53.42, -4.48, 400, 180, 970),
	}
}

func gsp(id, name string, lat, lng, voltage, headroom, load float64) model.GridNode {
	return model.GridNode{
		ID:         id,
		Name:       name,
		Kind:       model.NodeGSP,
		Coords:     model.Coords{Lat: lat, Lng: lng},
		VoltageKV:  voltage,
		HeadroomMW: headroom,
		LoadMW:     load,
	}
}

// CountryAnchor returns an approximate far-side coordinate for an
// interconnector partner country, used when the feed omits the link's
// landing point.
func CountryAnchor(countryCode string) (model.Coords, bool) {
	c, ok := countryAnchors[countryCode]
	return c, ok
}

var countryAnchors = map[string]model.Coords{
	"FR": {Lat: 50.95, Lng: 1.85},  // Calais area
	"NL": {Lat: 51.96, Lng: 4.10},  // Maasvlakte
	"BE": {Lat: 51.33, Lng: 3.20},  // Zeebrugge
	"NO": {Lat: 58.02, Lng: 6.65},  // Kvilldal landing
	"DK": {Lat: 55.47, Lng: 8.42},  // Esbjerg area
	"IE": {Lat: 53.40, Lng: -6.20}, // Dublin area
}
