package model

import "time"

// Operational statuses.
const (
	SiteStatusOperational    = "OPERATIONAL"
	SiteStatusMaintenance    = "MAINTENANCE"
	SiteStatusShutdown       = "SHUTDOWN"
	SiteStatusCommissioning  = "COMMISSIONING"
	SiteStatusDecommissioned = "DECOMMISSIONED"
)

// Plant types.
const (
	PlantTypeSolar      = "SOLAR"
	PlantTypeWind       = "WIND"
	PlantTypeThermal    = "THERMAL"
	PlantTypeHydro      = "HYDRO"
	PlantTypeNuclear    = "NUCLEAR"
	PlantTypeBiomass    = "BIOMASS"
	PlantTypeGeothermal = "GEOTHERMAL"
	PlantTypeHybrid     = "HYBRID"
	PlantTypeOther      = "OTHER"
)

// SiteStatuses lists the accepted operational_status values.
var SiteStatuses = []string{
	SiteStatusOperational, SiteStatusMaintenance, SiteStatusShutdown,
	SiteStatusCommissioning, SiteStatusDecommissioned,
}

// PlantTypes lists the accepted plant_type values.
var PlantTypes = []string{
	PlantTypeSolar, PlantTypeWind, PlantTypeThermal, PlantTypeHydro,
	PlantTypeNuclear, PlantTypeBiomass, PlantTypeGeothermal, PlantTypeHybrid,
	PlantTypeOther,
}

// DefaultEnabledForms returns the report forms a new site offers.
func DefaultEnabledForms() StringArray {
	return StringArray{
		IncidentTypeUnsafeAct, IncidentTypeUnsafeCondition,
		IncidentTypeNearMiss, IncidentTypeFeedback,
	}
}

// Site is a physical facility under an Entity (table sites).
// site_code is unique per entity. Coordinates are stored as a pair:
// both set or both null.
type Site struct {
	ID                  uint        `gorm:"primaryKey"                                     json:"id"`
	EntityID            uint        `gorm:"not null;index;uniqueIndex:uq_sites_entity_code" json:"entity_id"`
	Entity              *Entity     `gorm:"foreignKey:EntityID"                            json:"entity,omitempty"`
	Name                string      `gorm:"type:varchar(200);not null"                     json:"name"`
	SiteCode            string      `gorm:"type:varchar(20);not null;uniqueIndex:uq_sites_entity_code" json:"site_code"`
	Description         string      `gorm:"type:text"                                      json:"description,omitempty"`
	Address             string      `gorm:"type:text"                                      json:"address,omitempty"`
	City                string      `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	State               string      `gorm:"type:varchar(100)"                              json:"state,omitempty"`
	PostalCode          string      `gorm:"type:varchar(10)"                               json:"postal_code,omitempty"`
	Latitude            *float64    `gorm:"type:decimal(10,7)"                             json:"latitude,omitempty"`
	Longitude           *float64    `gorm:"type:decimal(10,7)"                             json:"longitude,omitempty"`
	OperationalStatus   string      `gorm:"type:varchar(20);not null;default:OPERATIONAL"  json:"operational_status"`
	PlantType           string      `gorm:"type:varchar(20);not null;default:SOLAR"        json:"plant_type"`
	CapacityMW          *float64    `gorm:"type:decimal(10,2)"                             json:"capacity_mw,omitempty"`
	EnabledForms        StringArray `gorm:"type:text[]"                                    json:"enabled_forms"`
	CommissionedDate    *time.Time  `gorm:"type:date"                                      json:"commissioned_date,omitempty"`
	LastMaintenanceDate *time.Time  `gorm:"type:date"                                      json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time  `gorm:"type:date"                                      json:"next_maintenance_date,omitempty"`
	Phone               string      `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Email               string      `gorm:"type:varchar(254)"                              json:"email,omitempty"`
	IsActive            bool        `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Site) TableName() string { return "sites" }

// IsOperational reports whether the site is active and running.
func (s *Site) IsOperational() bool {
	return s.IsActive && s.OperationalStatus == SiteStatusOperational
}

// HasCoordinates reports whether the GPS pair is present.
func (s *Site) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// ValidSiteStatus reports whether st is an accepted operational_status.
func ValidSiteStatus(st string) bool {
	for _, v := range SiteStatuses {
		if v == st {
			return true
		}
	}
	return false
}

// ValidPlantType reports whether pt is an accepted plant_type.
func ValidPlantType(pt string) bool {
	for _, v := range PlantTypes {
		if v == pt {
			return true
		}
	}
	return false
}

// ValidCoordinates reports whether the pair lies in range. Nil pairs are
// valid; a half-set pair is not.
func ValidCoordinates(lat, lon *float64) bool {
	if lat == nil && lon == nil {
		return true
	}
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}
