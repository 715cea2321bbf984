package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
)

// Incident types.
const (
	IncidentTypeUnsafeAct       = "UNSAFE_ACT"
	IncidentTypeUnsafeCondition = "UNSAFE_CONDITION"
	IncidentTypeNearMiss        = "NEAR_MISS"
	IncidentTypeFeedback        = "FEEDBACK"
	IncidentTypeAccident        = "ACCIDENT"
)

// Criticalities, lowest to highest.
const (
	CriticalityLow       = "LOW"
	CriticalityMedium    = "MEDIUM"
	CriticalityHigh      = "HIGH"
	CriticalityCritical  = "CRITICAL"
	CriticalityEmergency = "EMERGENCY"
)

// Incident statuses.
const (
	StatusReported      = "REPORTED"
	StatusAcknowledged  = "ACKNOWLEDGED"
	StatusInvestigating = "INVESTIGATING"
	StatusInProgress    = "IN_PROGRESS"
	StatusResolved      = "RESOLVED"
	StatusClosed        = "CLOSED"
	StatusCancelled     = "CANCELLED"
)

// IncidentTypes lists the accepted incident_type values.
var IncidentTypes = []string{
	IncidentTypeUnsafeAct, IncidentTypeUnsafeCondition,
	IncidentTypeNearMiss, IncidentTypeFeedback, IncidentTypeAccident,
}

// Criticalities lists the accepted criticality values.
var Criticalities = []string{
	CriticalityLow, CriticalityMedium, CriticalityHigh,
	CriticalityCritical, CriticalityEmergency,
}

// IncidentStatuses lists the accepted status values.
var IncidentStatuses = []string{
	StatusReported, StatusAcknowledged, StatusInvestigating,
	StatusInProgress, StatusResolved, StatusClosed, StatusCancelled,
}

// criticalityWeights drive the priority score. Unknown values weigh 1.
var criticalityWeights = map[string]float64{
	CriticalityEmergency: 10,
	CriticalityCritical:  8,
	CriticalityHigh:      6,
	CriticalityMedium:    4,
	CriticalityLow:       2,
}

// typeMultipliers scale the weight by report kind. Unknown values get 1.
var typeMultipliers = map[string]float64{
	IncidentTypeUnsafeCondition: 1.2,
	IncidentTypeNearMiss:        1.1,
	IncidentTypeUnsafeAct:       1.0,
	IncidentTypeFeedback:        0.8,
}

// overdueAllowances are the response windows in whole days per
// criticality. Unknown values get 30.
var overdueAllowances = map[string]int{
	CriticalityEmergency: 0,
	CriticalityCritical:  1,
	CriticalityHigh:      3,
	CriticalityMedium:    7,
	CriticalityLow:       30,
}

const defaultOverdueAllowance = 30

// Incident is a safety report (table incidents). A nil SiteID marks a
// headquarters-level incident.
type Incident struct {
	ID              uint           `gorm:"primaryKey"                              json:"id"`
	IncidentID      string         `gorm:"type:uuid;not null;uniqueIndex"          json:"incident_id"`
	IncidentNumber  string         `gorm:"type:varchar(60);not null;uniqueIndex"   json:"incident_number"`
	IncidentType    string         `gorm:"type:varchar(20);not null"               json:"incident_type"`
	Criticality     string         `gorm:"type:varchar(20);not null;default:MEDIUM" json:"criticality"`
	Status          string         `gorm:"type:varchar(20);not null;default:REPORTED;index" json:"status"`
	Title           string         `gorm:"type:varchar(200);not null"              json:"title"`
	Description     string         `gorm:"type:text"                               json:"description,omitempty"`
	SiteID          *uint          `gorm:"index"                                   json:"site_id,omitempty"`
	Site            *Site          `gorm:"foreignKey:SiteID"                       json:"site,omitempty"`
	ReporterName    string         `gorm:"type:varchar(100)"                       json:"reporter_name,omitempty"`
	ReporterEmail   string         `gorm:"type:varchar(254)"                       json:"reporter_email,omitempty"`
	ReporterPhone   string         `gorm:"type:varchar(20)"                        json:"reporter_phone,omitempty"`
	IsAnonymous     bool           `gorm:"not null;default:false"                  json:"is_anonymous"`
	Latitude        *float64       `gorm:"type:decimal(10,7)"                      json:"latitude,omitempty"`
	Longitude       *float64       `gorm:"type:decimal(10,7)"                      json:"longitude,omitempty"`
	Address         string         `gorm:"type:text"                               json:"address,omitempty"`
	DeviceInfo      datatypes.JSON `gorm:"type:jsonb"                              json:"device_info,omitempty"`
	PriorityScore   int            `gorm:"not null;default:0"                      json:"priority_score"`
	AssignedTo      string         `gorm:"type:varchar(100)"                       json:"assigned_to,omitempty"`
	ResolutionNotes string         `gorm:"type:text"                               json:"resolution_notes,omitempty"`
	AcknowledgedAt  *time.Time     `json:"acknowledged_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (Incident) TableName() string { return "incidents" }

// GenerateIncidentNumber builds INC-{site_code|UNKNOWN}-{type prefix}-{second
// timestamp}. Callers generate once on create; the number is never
// regenerated afterwards.
func GenerateIncidentNumber(siteCode, incidentType string, now time.Time) string {
	if siteCode == "" {
		siteCode = "UNKNOWN"
	}
	prefix := "GN"
	if len(incidentType) >= 2 {
		prefix = incidentType[:2]
	}
	return fmt.Sprintf("INC-%s-%s-%s", siteCode, prefix, now.Format("20060102150405"))
}

// WithRandomSuffix appends a 4-hex-digit suffix for the conflict-retry
// path when two creations land in the same second.
func WithRandomSuffix(number string) string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		// Fall back to the sub-second clock; collisions stay unlikely.
		return fmt.Sprintf("%s-%04x", number, time.Now().Nanosecond()&0xFFFF)
	}
	return number + "-" + hex.EncodeToString(b)
}

// CalculatePriorityScore derives the score from criticality and type.
// Recomputed on every persist so classification changes take effect.
func (i *Incident) CalculatePriorityScore() int {
	weight, ok := criticalityWeights[i.Criticality]
	if !ok {
		weight = 1
	}
	multiplier, ok := typeMultipliers[i.IncidentType]
	if !ok {
		multiplier = 1
	}
	return int(math.Round(weight * multiplier))
}

// ApplyStatusTimestamps stamps acknowledged_at/resolved_at/closed_at the
// first time the matching status is reached. Already-set stamps are never
// overwritten, so repeated saves with the same status are no-ops.
func (i *Incident) ApplyStatusTimestamps(now time.Time) {
	switch i.Status {
	case StatusAcknowledged:
		if i.AcknowledgedAt == nil {
			t := now
			i.AcknowledgedAt = &t
		}
	case StatusResolved:
		if i.ResolvedAt == nil {
			t := now
			i.ResolvedAt = &t
		}
	case StatusClosed:
		if i.ClosedAt == nil {
			t := now
			i.ClosedAt = &t
		}
	}
}

// AgeInDays returns whole days since creation.
func (i *Incident) AgeInDays(now time.Time) int {
	if now.Before(i.CreatedAt) {
		return 0
	}
	return int(now.Sub(i.CreatedAt).Hours() / 24)
}

// IsOverdue reports whether the incident has outlived its response window.
// Resolved and closed incidents are never overdue.
func (i *Incident) IsOverdue(now time.Time) bool {
	if i.Status == StatusResolved || i.Status == StatusClosed {
		return false
	}
	allowance, ok := overdueAllowances[i.Criticality]
	if !ok {
		allowance = defaultOverdueAllowance
	}
	return i.AgeInDays(now) > allowance
}

// OverdueAllowance exposes the response window for a criticality.
func OverdueAllowance(criticality string) int {
	if allowance, ok := overdueAllowances[criticality]; ok {
		return allowance
	}
	return defaultOverdueAllowance
}

// IsOpen reports whether the incident still needs attention.
func (i *Incident) IsOpen() bool {
	switch i.Status {
	case StatusResolved, StatusClosed, StatusCancelled:
		return false
	}
	return true
}

// ValidIncidentType reports whether t is an accepted incident_type.
func ValidIncidentType(t string) bool {
	for _, v := range IncidentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidCriticality reports whether c is an accepted criticality.
func ValidCriticality(c string) bool {
	for _, v := range Criticalities {
		if v == c {
			return true
		}
	}
	return false
}

// ValidIncidentStatus reports whether s is an accepted status.
func ValidIncidentStatus(s string) bool {
	for _, v := range IncidentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
