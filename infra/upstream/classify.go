package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
)

// decodeOverlay turns the raw layer map into typed collections. Entities are
// classified structurally from the marker fields they carry; records whose
// structure does not match their layer are excluded and reported as
// violations. Layers absent from the document stay nil so the store can
// apply its fallback policy.
func (c *Client) decodeOverlay(dto overlayStateDTO) overlay.Document {
	doc := overlay.Document{Present: make(map[model.LayerKind]bool)}

	for name, layer := range dto.Layers {
		if layer == nil {
			continue
		}
		kind, ok := model.ParseLayerKind(name)
		if !ok {
			c.log.Warnf("ignoring unknown layer %q", name)
			continue
		}
		doc.Present[kind] = true
		switch kind {
		case model.LayerGenerators:
			doc.Generators = make([]model.Generator, 0, len(layer.Data))
			c.decodeEntities(&doc, kind, layer.Data, func(e entityDTO) {
				doc.Generators = append(doc.Generators, model.Generator{
					ID:         e.ID,
					Name:       e.Name,
					Fuel:       model.ParseFuelKind(*e.Fuel),
					Coords:     e.Coords,
					CapacityMW: e.CapacityMW,
					OutputMW:   e.OutputMW,
					BidsMW:     e.BidsMW,
					OffersMW:   e.OffersMW,
				})
			})
		case model.LayerInterconnectors:
			doc.Interconnectors = make([]model.InterconnectorLink, 0, len(layer.Data))
			c.decodeEntities(&doc, kind, layer.Data, func(e entityDTO) {
				doc.Interconnectors = append(doc.Interconnectors, model.InterconnectorLink{
					ID:          e.ID,
					Name:        e.Name,
					CountryCode: *e.CountryCode,
					Coords:      e.Coords,
					CapacityMW:  e.CapacityMW,
					FlowMW:      e.FlowMW,
				})
			})
		case model.LayerGridNodes:
			doc.GridNodes = make([]model.GridNode, 0, len(layer.Data))
			c.decodeEntities(&doc, kind, layer.Data, func(e entityDTO) {
				doc.GridNodes = append(doc.GridNodes, model.GridNode{
					ID:         e.ID,
					Name:       e.Name,
					Kind:       model.NodeKind(*e.NodeKind),
					Coords:     e.Coords,
					VoltageKV:  e.VoltageKV,
					HeadroomMW: e.HeadroomMW,
					LoadMW:     e.LoadMW,
				})
			})
		case model.LayerCarbon:
			doc.CarbonRegions = c.decodeRegions(layer.Data)
		}
	}
	return doc
}

// expectedKind maps a layer onto the entity kind its records must resolve to.
var expectedKind = map[model.LayerKind]model.EntityKind{
	model.LayerGenerators:      model.KindGenerator,
	model.LayerInterconnectors: model.KindInterconnector,
	model.LayerGridNodes:       model.KindGridNode,
}

func (c *Client) decodeEntities(doc *overlay.Document, layer model.LayerKind, data []json.RawMessage, accept func(entityDTO)) {
	for _, raw := range data {
		var e entityDTO
		if err := json.Unmarshal(raw, &e); err != nil {
			c.reject(doc, layer, "", fmt.Sprintf("malformed record: %v", err))
			continue
		}
		kind, err := model.ResolveEntityKind(e.Fuel != nil, e.NodeKind != nil, e.CountryCode != nil)
		if err != nil {
			c.reject(doc, layer, e.ID, err.Error())
			continue
		}
		if kind != expectedKind[layer] {
			c.reject(doc, layer, e.ID, fmt.Sprintf("%s record in %s layer", kind, layer))
			continue
		}
		accept(e)
	}
}

func (c *Client) decodeRegions(data []json.RawMessage) []model.CarbonRegion {
	regions := make([]model.CarbonRegion, 0, len(data))
	disagreements := 0
	for _, raw := range data {
		var e entityDTO
		if err := json.Unmarshal(raw, &e); err != nil {
			c.log.Warnf("malformed carbon region record: %v", err)
			continue
		}
		r := model.CarbonRegion{
			ID:        e.RegionID,
			Name:      e.Name,
			Coords:    e.Coords,
			Intensity: e.Intensity,
		}
		if band, ok := model.ParseIntensityBand(e.Index); ok {
			r.Band = band
		} else {
			r.Band = model.BandForIntensity(e.Intensity)
		}
		if !r.BandAgreesWithIntensity() {
			disagreements++
		}
		regions = append(regions, r)
	}
	if disagreements > 0 {
		c.log.Warnf("carbon feed band disagrees with intensity for %d regions", disagreements)
	}
	return regions
}

func (c *Client) reject(doc *overlay.Document, layer model.LayerKind, id, reason string) {
	doc.Violations = append(doc.Violations, overlay.Violation{Layer: layer, ID: id, Reason: reason})
	c.log.Warnf("excluding record %q from %s: %s", id, layer, reason)
}
