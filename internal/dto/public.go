package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── public lookup DTOs ──
// These projections back the unauthenticated QR-landing endpoints. They
// expose what a visitor at the gate needs and nothing internal.

// PublicSiteResponse is the public site projection. SiteID stays so the
// report form can reference the site; everything else internal is cut.
type PublicSiteResponse struct {
	SiteID            uint                       `json:"site_id,omitempty"`
	Name              string                     `json:"name"`
	SiteCode          string                     `json:"site_code"`
	CompanyName       string                     `json:"company_name"`
	CompanyCode       string                     `json:"company_code"`
	EntityName        string                     `json:"entity_name,omitempty"`
	Address           string                     `json:"address,omitempty"`
	City              string                     `json:"city,omitempty"`
	State             string                     `json:"state,omitempty"`
	PostalCode        string                     `json:"postal_code,omitempty"`
	Latitude          *float64                   `json:"latitude,omitempty"`
	Longitude         *float64                   `json:"longitude,omitempty"`
	Phone             string                     `json:"phone,omitempty"`
	Email             string                     `json:"email,omitempty"`
	PlantType         string                     `json:"plant_type,omitempty"`
	OperationalStatus string                     `json:"operational_status,omitempty"`
	EnabledForms      []string                   `json:"enabled_forms"`
	IsHeadquarters    bool                       `json:"is_headquarters"`
	EmergencyContacts []EmergencyContactResponse `json:"emergency_contacts"`
}

// NewPublicSiteResponse maps a site row with its contacts.
func NewPublicSiteResponse(s *model.Site, contacts []EmergencyContactResponse) PublicSiteResponse {
	resp := PublicSiteResponse{
		SiteID:            s.ID,
		Name:              s.Name,
		SiteCode:          s.SiteCode,
		Address:           s.Address,
		City:              s.City,
		State:             s.State,
		PostalCode:        s.PostalCode,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		Phone:             s.Phone,
		Email:             s.Email,
		PlantType:         s.PlantType,
		OperationalStatus: s.OperationalStatus,
		EnabledForms:      s.EnabledForms,
		IsHeadquarters:    false,
		EmergencyContacts: contacts,
	}
	if resp.EnabledForms == nil {
		resp.EnabledForms = []string{}
	}
	if contacts == nil {
		resp.EmergencyContacts = []EmergencyContactResponse{}
	}
	if s.Entity != nil {
		resp.EntityName = s.Entity.Name
		if s.Entity.Company != nil {
			resp.CompanyName = s.Entity.Company.Name
			resp.CompanyCode = s.Entity.Company.CompanyCode
		}
	}
	return resp
}

// PublicEntityResponse is the public entity projection.
type PublicEntityResponse struct {
	Name        string `json:"name"`
	EntityCode  string `json:"entity_code"`
	CompanyName string `json:"company_name"`
	CompanyCode string `json:"company_code"`
	FullAddress string `json:"full_address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// NewPublicEntityResponse maps an entity row.
func NewPublicEntityResponse(e *model.Entity) PublicEntityResponse {
	resp := PublicEntityResponse{
		Name:        e.Name,
		EntityCode:  e.EntityCode,
		FullAddress: e.FullAddress(),
		Phone:       e.Phone,
		Email:       e.Email,
	}
	if e.Company != nil {
		resp.CompanyName = e.Company.Name
		resp.CompanyCode = e.Company.CompanyCode
	}
	return resp
}
