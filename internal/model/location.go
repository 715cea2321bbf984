package model

import (
	"fmt"
	"strconv"
)

// Location kinds. Wire values of location_type.
const (
	LocationHeadquarters = "headquarters"
	LocationCompany      = "company"
	LocationEntity       = "entity"
	LocationSite         = "site"
)

// Sentinel location ids. headquarters and company assignments carry these
// literal strings instead of a numeric id.
const (
	SentinelHeadquarters = "headquarters"
	SentinelCompany      = "company"
)

// LocationRef is the tagged form of the (location_type, location_id) wire
// pair. Kind selects the variant; ID is meaningful only for the entity and
// site variants.
type LocationRef struct {
	Kind string
	ID   uint
}

// ParseLocationRef validates and converts a wire pair. headquarters and
// company require their sentinel id verbatim; entity and site require a
// positive integer.
func ParseLocationRef(locationType, locationID string) (LocationRef, error) {
	switch locationType {
	case LocationHeadquarters:
		if locationID != SentinelHeadquarters {
			return LocationRef{}, fmt.Errorf("location_id must be %q for headquarters assignments", SentinelHeadquarters)
		}
		return LocationRef{Kind: LocationHeadquarters}, nil
	case LocationCompany:
		if locationID != SentinelCompany {
			return LocationRef{}, fmt.Errorf("location_id must be %q for company assignments", SentinelCompany)
		}
		return LocationRef{Kind: LocationCompany}, nil
	case LocationEntity, LocationSite:
		id, err := strconv.ParseUint(locationID, 10, 32)
		if err != nil || id == 0 {
			return LocationRef{}, fmt.Errorf("location_id must be a positive integer for %s assignments", locationType)
		}
		return LocationRef{Kind: locationType, ID: uint(id)}, nil
	default:
		return LocationRef{}, fmt.Errorf("unknown location_type %q", locationType)
	}
}

// WireID returns the location_id wire value for this reference.
func (r LocationRef) WireID() string {
	switch r.Kind {
	case LocationHeadquarters:
		return SentinelHeadquarters
	case LocationCompany:
		return SentinelCompany
	default:
		return strconv.FormatUint(uint64(r.ID), 10)
	}
}

// IsOrganization reports whether the reference points at the organization
// itself rather than an entity or site row.
func (r LocationRef) IsOrganization() bool {
	return r.Kind == LocationHeadquarters || r.Kind == LocationCompany
}

func (r LocationRef) String() string {
	return r.Kind + ":" + r.WireID()
}
