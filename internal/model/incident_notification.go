package model

import "time"

// Notification channels.
const (
	NotificationTypeEmail  = "EMAIL"
	NotificationTypeSMS    = "SMS"
	NotificationTypePush   = "PUSH"
	NotificationTypeSystem = "SYSTEM"
)

// Notification delivery statuses.
const (
	NotificationPending   = "PENDING"
	NotificationSent      = "SENT"
	NotificationDelivered = "DELIVERED"
	NotificationFailed    = "FAILED"
)

// IncidentNotification logs an outbound notification attempt (table
// incident_notifications). Dispatch is best-effort: delivery failures are
// recorded here and never fail the incident write.
type IncidentNotification struct {
	ID               uint       `gorm:"primaryKey"                              json:"id"`
	IncidentID       uint       `gorm:"not null;index"                          json:"incident_id"`
	Incident         *Incident  `gorm:"foreignKey:IncidentID"                   json:"incident,omitempty"`
	NotificationType string     `gorm:"type:varchar(20);not null;default:EMAIL" json:"notification_type"`
	RecipientName    string     `gorm:"type:varchar(100)"                       json:"recipient_name,omitempty"`
	RecipientEmail   string     `gorm:"type:varchar(254)"                       json:"recipient_email,omitempty"`
	RecipientPhone   string     `gorm:"type:varchar(20)"                        json:"recipient_phone,omitempty"`
	Subject          string     `gorm:"type:varchar(200)"                       json:"subject,omitempty"`
	Message          string     `gorm:"type:text"                               json:"message,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	ErrorMessage     string     `gorm:"type:text"                               json:"error_message,omitempty"`
	RetryCount       int        `gorm:"not null;default:0"                      json:"retry_count"`
	BaseModel
}

// TableName sets the table name.
func (IncidentNotification) TableName() string { return "incident_notifications" }

// MarkSent records a successful dispatch.
func (n *IncidentNotification) MarkSent(now time.Time) {
	n.Status = NotificationSent
	t := now
	n.SentAt = &t
	n.ErrorMessage = ""
}

// MarkFailed records a failed dispatch attempt.
func (n *IncidentNotification) MarkFailed(errMsg string) {
	n.Status = NotificationFailed
	n.ErrorMessage = errMsg
	n.RetryCount++
}
