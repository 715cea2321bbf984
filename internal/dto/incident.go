package dto

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// decodeDeviceInfo unpacks the stored JSON column; bad payloads yield nil.
func decodeDeviceInfo(raw datatypes.JSON) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// EncodeDeviceInfo packs the request map into the JSON column form.
func EncodeDeviceInfo(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return raw
}

// ── incident DTOs ──

// CreateIncidentRequest reports an incident. Headquarters-level reports
// set is_headquarters instead of site_id.
type CreateIncidentRequest struct {
	IncidentType   string                 `json:"incident_type"   binding:"required,oneof=UNSAFE_ACT UNSAFE_CONDITION NEAR_MISS FEEDBACK ACCIDENT"`
	Criticality    string                 `json:"criticality"     binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL EMERGENCY"`
	Title          string                 `json:"title"           binding:"required,min=10,max=200"`
	Description    string                 `json:"description"     binding:"omitempty,max=5000"`
	SiteID         *uint                  `json:"site_id"         binding:"omitempty,min=1"`
	IsHeadquarters bool                   `json:"is_headquarters"`
	ReporterName   string                 `json:"reporter_name"   binding:"omitempty,max=100"`
	ReporterEmail  string                 `json:"reporter_email"  binding:"omitempty,email"`
	ReporterPhone  string                 `json:"reporter_phone"  binding:"omitempty,max=20"`
	IsAnonymous    bool                   `json:"is_anonymous"`
	Latitude       *float64               `json:"latitude"        binding:"omitempty,min=-90,max=90"`
	Longitude      *float64               `json:"longitude"       binding:"omitempty,min=-180,max=180"`
	Address        string                 `json:"address"         binding:"omitempty,max=500"`
	DeviceInfo     map[string]interface{} `json:"device_info"     binding:"omitempty"`
}

// UpdateIncidentRequest patches an incident. Nil fields stay unchanged.
// Status changes obey the closed-incident rule like the dedicated path.
type UpdateIncidentRequest struct {
	IncidentType    *string `json:"incident_type"    binding:"omitempty,oneof=UNSAFE_ACT UNSAFE_CONDITION NEAR_MISS FEEDBACK ACCIDENT"`
	Criticality     *string `json:"criticality"      binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL EMERGENCY"`
	Status          *string `json:"status"           binding:"omitempty,oneof=REPORTED ACKNOWLEDGED INVESTIGATING IN_PROGRESS RESOLVED CLOSED CANCELLED"`
	Title           *string `json:"title"            binding:"omitempty,min=10,max=200"`
	Description     *string `json:"description"      binding:"omitempty,max=5000"`
	AssignedTo      *string `json:"assigned_to"      binding:"omitempty,max=100"`
	ResolutionNotes *string `json:"resolution_notes" binding:"omitempty,max=5000"`
}

// UpdateIncidentStatusRequest drives the dedicated status transition path.
type UpdateIncidentStatusRequest struct {
	Status          string `json:"status"           binding:"required,oneof=REPORTED ACKNOWLEDGED INVESTIGATING IN_PROGRESS RESOLVED CLOSED CANCELLED"`
	AssignedTo      string `json:"assigned_to"      binding:"omitempty,max=100"`
	ResolutionNotes string `json:"resolution_notes" binding:"omitempty,max=5000"`
}

// IncidentListRequest filters the incident list. site_id accepts a numeric
// id or the literal "headquarters" for site-less incidents.
type IncidentListRequest struct {
	PaginationRequest
	SiteID       string `form:"site_id"       binding:"omitempty,max=20"`
	IncidentType string `form:"incident_type" binding:"omitempty,oneof=UNSAFE_ACT UNSAFE_CONDITION NEAR_MISS FEEDBACK ACCIDENT"`
	Criticality  string `form:"criticality"   binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL EMERGENCY"`
	Status       string `form:"status"        binding:"omitempty,oneof=REPORTED ACKNOWLEDGED INVESTIGATING IN_PROGRESS RESOLVED CLOSED CANCELLED"`
	IsOverdue    *bool  `form:"is_overdue"`
	IsAnonymous  *bool  `form:"is_anonymous"`
	DateFrom     string `form:"date_from"     binding:"omitempty,datetime=2006-01-02"`
	DateTo       string `form:"date_to"       binding:"omitempty,datetime=2006-01-02"`
	Search       string `form:"search"        binding:"omitempty,max=100"`
	Ordering     string `form:"ordering"      binding:"omitempty,oneof=created_at -created_at priority_score -priority_score criticality -criticality status -status"`
}

// IncidentDetailResponse is the incident wire projection, including the
// derived overdue fields.
type IncidentDetailResponse struct {
	ID              uint                   `json:"id"`
	IncidentID      string                 `json:"incident_id"`
	IncidentNumber  string                 `json:"incident_number"`
	IncidentType    string                 `json:"incident_type"`
	Criticality     string                 `json:"criticality"`
	Status          string                 `json:"status"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	SiteID          *uint                  `json:"site_id,omitempty"`
	SiteName        string                 `json:"site_name,omitempty"`
	SiteCode        string                 `json:"site_code,omitempty"`
	IsHeadquarters  bool                   `json:"is_headquarters"`
	ReporterName    string                 `json:"reporter_name,omitempty"`
	ReporterEmail   string                 `json:"reporter_email,omitempty"`
	ReporterPhone   string                 `json:"reporter_phone,omitempty"`
	IsAnonymous     bool                   `json:"is_anonymous"`
	Latitude        *float64               `json:"latitude,omitempty"`
	Longitude       *float64               `json:"longitude,omitempty"`
	Address         string                 `json:"address,omitempty"`
	DeviceInfo      map[string]interface{} `json:"device_info,omitempty"`
	PriorityScore   int                    `json:"priority_score"`
	IsOverdue       bool                   `json:"is_overdue"`
	AgeInDays       int                    `json:"age_in_days"`
	AssignedTo      string                 `json:"assigned_to,omitempty"`
	ResolutionNotes string                 `json:"resolution_notes,omitempty"`
	AcknowledgedAt  string                 `json:"acknowledged_at,omitempty"`
	ResolvedAt      string                 `json:"resolved_at,omitempty"`
	ClosedAt        string                 `json:"closed_at,omitempty"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

// NewIncidentDetailResponse maps a model row; now anchors the derived
// overdue fields.
func NewIncidentDetailResponse(i *model.Incident, now time.Time) IncidentDetailResponse {
	resp := IncidentDetailResponse{
		ID:              i.ID,
		IncidentID:      i.IncidentID,
		IncidentNumber:  i.IncidentNumber,
		IncidentType:    i.IncidentType,
		Criticality:     i.Criticality,
		Status:          i.Status,
		Title:           i.Title,
		Description:     i.Description,
		SiteID:          i.SiteID,
		IsHeadquarters:  i.SiteID == nil,
		ReporterName:    i.ReporterName,
		ReporterEmail:   i.ReporterEmail,
		ReporterPhone:   i.ReporterPhone,
		IsAnonymous:     i.IsAnonymous,
		Latitude:        i.Latitude,
		Longitude:       i.Longitude,
		Address:         i.Address,
		PriorityScore:   i.PriorityScore,
		IsOverdue:       i.IsOverdue(now),
		AgeInDays:       i.AgeInDays(now),
		AssignedTo:      i.AssignedTo,
		ResolutionNotes: i.ResolutionNotes,
		AcknowledgedAt:  FormatTimePtr(i.AcknowledgedAt),
		ResolvedAt:      FormatTimePtr(i.ResolvedAt),
		ClosedAt:        FormatTimePtr(i.ClosedAt),
		CreatedAt:       FormatTime(i.CreatedAt),
		UpdatedAt:       FormatTime(i.UpdatedAt),
	}
	if i.Site != nil {
		resp.SiteName = i.Site.Name
		resp.SiteCode = i.Site.SiteCode
	}
	if len(i.DeviceInfo) > 0 {
		resp.DeviceInfo = decodeDeviceInfo(i.DeviceInfo)
	}
	if i.IsAnonymous {
		resp.ReporterName = ""
		resp.ReporterEmail = ""
		resp.ReporterPhone = ""
	}
	return resp
}

// SiteIncidentCount is one row of the per-site breakdown.
type SiteIncidentCount struct {
	SiteID   uint   `json:"site_id"`
	SiteName string `json:"site_name"`
	SiteCode string `json:"site_code"`
	Count    int64  `json:"count"`
}

// IncidentStatsRequest scopes the incident dashboard.
type IncidentStatsRequest struct {
	Days      int    `form:"days"       binding:"omitempty,min=1,max=365"`
	SiteID    string `form:"site_id"    binding:"omitempty,max=20"`
	CompanyID uint   `form:"company_id" binding:"omitempty,min=1"`
}

// IncidentStatsResponse is the incident dashboard projection. Group maps
// partition the filtered set: each sums to total_incidents.
type IncidentStatsResponse struct {
	TotalIncidents    int64                    `json:"total_incidents"`
	OpenIncidents     int64                    `json:"open_incidents"`
	ResolvedIncidents int64                    `json:"resolved_incidents"`
	CriticalIncidents int64                    `json:"critical_incidents"`
	OverdueIncidents  int64                    `json:"overdue_incidents"`
	ByType            map[string]int64         `json:"by_type"`
	ByCriticality     map[string]int64         `json:"by_criticality"`
	ByStatus          map[string]int64         `json:"by_status"`
	BySite            []SiteIncidentCount      `json:"by_site"`
	RecentIncidents   []IncidentDetailResponse `json:"recent_incidents"`
	PeriodDays        int                      `json:"period_days"`
}

// ── incident response DTOs ──

// CreateIncidentResponseRequest adds a note to an incident.
type CreateIncidentResponseRequest struct {
	ResponseType        string `json:"response_type"          binding:"required,oneof=INVESTIGATION CORRECTIVE_ACTION PREVENTIVE_ACTION FOLLOW_UP STATUS_UPDATE CLOSURE"`
	Message             string `json:"message"                binding:"required,min=1,max=5000"`
	ResponderName       string `json:"responder_name"         binding:"required,min=1,max=100"`
	ResponderEmail      string `json:"responder_email"        binding:"omitempty,email"`
	ResponderRole       string `json:"responder_role"         binding:"omitempty,max=100"`
	IsInternal          bool   `json:"is_internal"`
	IsVisibleToReporter *bool  `json:"is_visible_to_reporter"`
}

// IncidentResponseDetail is the response-note wire projection.
type IncidentResponseDetail struct {
	ID                  uint   `json:"id"`
	IncidentID          uint   `json:"incident_id"`
	ResponseType        string `json:"response_type"`
	Message             string `json:"message"`
	ResponderName       string `json:"responder_name"`
	ResponderEmail      string `json:"responder_email,omitempty"`
	ResponderRole       string `json:"responder_role,omitempty"`
	IsInternal          bool   `json:"is_internal"`
	IsVisibleToReporter bool   `json:"is_visible_to_reporter"`
	CreatedAt           string `json:"created_at"`
}

// NewIncidentResponseDetail maps a model row.
func NewIncidentResponseDetail(r *model.IncidentResponse) IncidentResponseDetail {
	return IncidentResponseDetail{
		ID:                  r.ID,
		IncidentID:          r.IncidentID,
		ResponseType:        r.ResponseType,
		Message:             r.Message,
		ResponderName:       r.ResponderName,
		ResponderEmail:      r.ResponderEmail,
		ResponderRole:       r.ResponderRole,
		IsInternal:          r.IsInternal,
		IsVisibleToReporter: r.IsVisibleToReporter,
		CreatedAt:           FormatTime(r.CreatedAt),
	}
}

// ── attachment DTOs ──

// CreateAttachmentRequest registers an attachment and requests an upload
// slot. The client PUTs the bytes to the returned presigned URL.
type CreateAttachmentRequest struct {
	FileName   string `json:"file_name"   binding:"required,min=1,max=255"`
	FileSize   int64  `json:"file_size"   binding:"omitempty,min=0,max=52428800"`
	FileType   string `json:"file_type"   binding:"omitempty,oneof=IMAGE DOCUMENT VIDEO AUDIO OTHER"`
	MimeType   string `json:"mime_type"   binding:"omitempty,max=100"`
	UploadedBy string `json:"uploaded_by" binding:"omitempty,max=100"`
	IsPublic   bool   `json:"is_public"`
}

// AttachmentResponse is the attachment wire projection. UploadURL is set
// only on creation; DownloadURL only when the object store is reachable.
type AttachmentResponse struct {
	ID          uint   `json:"id"`
	IncidentID  uint   `json:"incident_id"`
	FileName    string `json:"file_name"`
	ObjectKey   string `json:"object_key"`
	FileSize    int64  `json:"file_size"`
	FileType    string `json:"file_type"`
	MimeType    string `json:"mime_type,omitempty"`
	UploadedBy  string `json:"uploaded_by,omitempty"`
	IsPublic    bool   `json:"is_public"`
	UploadURL   string `json:"upload_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// NewAttachmentResponse maps a model row.
func NewAttachmentResponse(a *model.IncidentAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		IncidentID: a.IncidentID,
		FileName:   a.FileName,
		ObjectKey:  a.ObjectKey,
		FileSize:   a.FileSize,
		FileType:   a.FileType,
		MimeType:   a.MimeType,
		UploadedBy: a.UploadedBy,
		IsPublic:   a.IsPublic,
		CreatedAt:  FormatTime(a.CreatedAt),
	}
}

// ── notification DTOs ──

// NotificationListRequest filters the global notification log.
type NotificationListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING SENT DELIVERED FAILED"`
}

// NotificationResponse is the notification-log wire projection.
type NotificationResponse struct {
	ID               uint   `json:"id"`
	IncidentID       uint   `json:"incident_id"`
	IncidentNumber   string `json:"incident_number,omitempty"`
	NotificationType string `json:"notification_type"`
	RecipientName    string `json:"recipient_name,omitempty"`
	RecipientEmail   string `json:"recipient_email,omitempty"`
	Subject          string `json:"subject,omitempty"`
	Status           string `json:"status"`
	SentAt           string `json:"sent_at,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	RetryCount       int    `json:"retry_count"`
	CreatedAt        string `json:"created_at"`
}

// NewNotificationResponse maps a model row.
func NewNotificationResponse(n *model.IncidentNotification) NotificationResponse {
	resp := NotificationResponse{
		ID:               n.ID,
		IncidentID:       n.IncidentID,
		NotificationType: n.NotificationType,
		RecipientName:    n.RecipientName,
		RecipientEmail:   n.RecipientEmail,
		Subject:          n.Subject,
		Status:           n.Status,
		SentAt:           FormatTimePtr(n.SentAt),
		ErrorMessage:     n.ErrorMessage,
		RetryCount:       n.RetryCount,
		CreatedAt:        FormatTime(n.CreatedAt),
	}
	if n.Incident != nil {
		resp.IncidentNumber = n.Incident.IncidentNumber
	}
	return resp
}
