package model

import "errors"

// EntityKind identifies what kind of grid entity a record describes.
type EntityKind string

const (
	KindGenerator      EntityKind = "generator"
	KindInterconnector EntityKind = "interconnector"
	KindGridNode       EntityKind = "grid_node"
	KindCarbonRegion   EntityKind = "carbon_region"
)

var (
	// ErrUnclassifiedEntity marks a record carrying none of the structural
	// marker fields.
	ErrUnclassifiedEntity = errors.New("entity matches no known kind")
	// ErrAmbiguousEntity marks a record carrying marker fields of more than
	// one kind, which breaks the upstream contract.
	ErrAmbiguousEntity = errors.New("entity matches multiple kinds")
)

// ResolveEntityKind classifies a record structurally from the marker fields
// present on it: a fuel type marks a generator, a node type marks a grid
// node, a country code marks an interconnector. Classification never trusts
// a self-declared type field.
func ResolveEntityKind(hasFuel, hasNodeKind, hasCountry bool) (EntityKind, error) {
	matches := 0
	var kind EntityKind
	if hasFuel {
		matches++
		kind = KindGenerator
	}
	if hasNodeKind {
		matches++
		kind = KindGridNode
	}
	if hasCountry {
		matches++
		kind = KindInterconnector
	}
	switch matches {
	case 0:
		return "", ErrUnclassifiedEntity
	case 1:
		return kind, nil
	default:
		return "", ErrAmbiguousEntity
	}
}

// Selection points at a single entity on the overlay.
type Selection struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}
