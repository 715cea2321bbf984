package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── emergency contact DTOs ──

// CreateEmergencyContactRequest creates a contact. At least one of
// site_id/company_id must be set; the service enforces that.
type CreateEmergencyContactRequest struct {
	SiteID         *uint  `json:"site_id"          binding:"omitempty,min=1"`
	CompanyID      *uint  `json:"company_id"       binding:"omitempty,min=1"`
	ContactType    string `json:"contact_type"     binding:"required,oneof=SAFETY_INCHARGE PLANT_INCHARGE SITE_SUPERVISOR SECURITY MEDICAL_EMERGENCY FIRE_DEPARTMENT POLICE AMBULANCE HOSPITAL ELECTRICITY_BOARD POLLUTION_CONTROL MANAGEMENT OTHER"`
	Name           string `json:"name"             binding:"required,min=2,max=100"`
	Designation    string `json:"designation"      binding:"omitempty,max=100"`
	PrimaryPhone   string `json:"primary_phone"    binding:"required,min=3,max=20"`
	SecondaryPhone string `json:"secondary_phone"  binding:"omitempty,max=20"`
	Email          string `json:"email"            binding:"omitempty,email"`
	Is24x7         bool   `json:"is_24x7_available"`
	IsPrimary      bool   `json:"is_primary"`
	PriorityOrder  int    `json:"priority_order"   binding:"omitempty,min=0,max=1000"`
}

// UpdateEmergencyContactRequest patches a contact. Nil fields stay unchanged.
type UpdateEmergencyContactRequest struct {
	ContactType    *string `json:"contact_type"     binding:"omitempty,oneof=SAFETY_INCHARGE PLANT_INCHARGE SITE_SUPERVISOR SECURITY MEDICAL_EMERGENCY FIRE_DEPARTMENT POLICE AMBULANCE HOSPITAL ELECTRICITY_BOARD POLLUTION_CONTROL MANAGEMENT OTHER"`
	Name           *string `json:"name"             binding:"omitempty,min=2,max=100"`
	Designation    *string `json:"designation"      binding:"omitempty,max=100"`
	PrimaryPhone   *string `json:"primary_phone"    binding:"omitempty,min=3,max=20"`
	SecondaryPhone *string `json:"secondary_phone"  binding:"omitempty,max=20"`
	Email          *string `json:"email"            binding:"omitempty,email"`
	Is24x7         *bool   `json:"is_24x7_available"`
	IsPrimary      *bool   `json:"is_primary"`
	PriorityOrder  *int    `json:"priority_order"   binding:"omitempty,min=0,max=1000"`
	IsActive       *bool   `json:"is_active"`
}

// EmergencyContactListRequest filters the contact list.
type EmergencyContactListRequest struct {
	PaginationRequest
	SiteID      uint   `form:"site_id"           binding:"omitempty,min=1"`
	CompanyID   uint   `form:"company_id"        binding:"omitempty,min=1"`
	ContactType string `form:"contact_type"      binding:"omitempty,max=30"`
	ActiveOnly  bool   `form:"active_only"`
	Available   bool   `form:"available_24x7"`
}

// EmergencyContactResponse is the contact wire projection.
type EmergencyContactResponse struct {
	ID             uint   `json:"id"`
	SiteID         *uint  `json:"site_id,omitempty"`
	SiteName       string `json:"site_name,omitempty"`
	CompanyID      *uint  `json:"company_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	ContactType    string `json:"contact_type"`
	Name           string `json:"name"`
	Designation    string `json:"designation,omitempty"`
	PrimaryPhone   string `json:"primary_phone"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Is24x7         bool   `json:"is_24x7_available"`
	IsPrimary      bool   `json:"is_primary"`
	PriorityOrder  int    `json:"priority_order"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
}

// NewEmergencyContactResponse maps a model row.
func NewEmergencyContactResponse(c *model.EmergencyContact) EmergencyContactResponse {
	resp := EmergencyContactResponse{
		ID:             c.ID,
		SiteID:         c.SiteID,
		CompanyID:      c.CompanyID,
		ContactType:    c.ContactType,
		Name:           c.Name,
		Designation:    c.Designation,
		PrimaryPhone:   c.PrimaryPhone,
		SecondaryPhone: c.SecondaryPhone,
		Email:          c.Email,
		Is24x7:         c.Is24x7,
		IsPrimary:      c.IsPrimary,
		PriorityOrder:  c.PriorityOrder,
		IsActive:       c.IsActive,
		CreatedAt:      FormatTime(c.CreatedAt),
	}
	if c.Site != nil {
		resp.SiteName = c.Site.Name
	}
	if c.Company != nil {
		resp.CompanyName = c.Company.Name
	}
	return resp
}

// ContactDirectoryResponse combines the registered contacts for a
// location with the employees flagged for emergency display there.
type ContactDirectoryResponse struct {
	LocationType string                     `json:"location_type"`
	LocationID   string                     `json:"location_id"`
	LocationName string                     `json:"location_name"`
	Contacts     []EmergencyContactResponse `json:"contacts"`
	Employees    []EmergencyContactEmployee `json:"employees"`
}

// NationalContactResponse is the helpline wire projection.
type NationalContactResponse struct {
	ID          uint   `json:"id"`
	ContactType string `json:"contact_type"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	IsNational  bool   `json:"is_national"`
}

// NewNationalContactResponse maps a model row.
func NewNationalContactResponse(c *model.NationalEmergencyContact) NationalContactResponse {
	return NationalContactResponse{
		ID:          c.ID,
		ContactType: c.ContactType,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Description: c.Description,
		State:       c.State,
		IsNational:  c.State == "",
	}
}
