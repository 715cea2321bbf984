package model

// Response types.
const (
	ResponseTypeInvestigation    = "INVESTIGATION"
	ResponseTypeCorrectiveAction = "CORRECTIVE_ACTION"
	ResponseTypePreventiveAction = "PREVENTIVE_ACTION"
	ResponseTypeFollowUp         = "FOLLOW_UP"
	ResponseTypeStatusUpdate     = "STATUS_UPDATE"
	ResponseTypeClosure          = "CLOSURE"
)

// ResponseTypes lists the accepted response_type values.
var ResponseTypes = []string{
	ResponseTypeInvestigation, ResponseTypeCorrectiveAction,
	ResponseTypePreventiveAction, ResponseTypeFollowUp,
	ResponseTypeStatusUpdate, ResponseTypeClosure,
}

// IncidentResponse is an investigation or follow-up note on an incident
// (table incident_responses). Cascade-deleted with the incident.
type IncidentResponse struct {
	ID                  uint      `gorm:"primaryKey"                  json:"id"`
	IncidentID          uint      `gorm:"not null;index"              json:"incident_id"`
	Incident            *Incident `gorm:"foreignKey:IncidentID"       json:"incident,omitempty"`
	ResponseType        string    `gorm:"type:varchar(20);not null"   json:"response_type"`
	Message             string    `gorm:"type:text;not null"          json:"message"`
	ResponderName       string    `gorm:"type:varchar(100);not null"  json:"responder_name"`
	ResponderEmail      string    `gorm:"type:varchar(254)"           json:"responder_email,omitempty"`
	ResponderRole       string    `gorm:"type:varchar(100)"           json:"responder_role,omitempty"`
	IsInternal          bool      `gorm:"not null;default:false"      json:"is_internal"`
	IsVisibleToReporter bool      `gorm:"not null;default:true"       json:"is_visible_to_reporter"`
	BaseModel
}

// TableName sets the table name.
func (IncidentResponse) TableName() string { return "incident_responses" }

// ValidResponseType reports whether t is an accepted response_type.
func ValidResponseType(t string) bool {
	for _, v := range ResponseTypes {
		if v == t {
			return true
		}
	}
	return false
}
