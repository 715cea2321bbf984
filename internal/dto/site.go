package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── site DTOs ──

// CreateSiteRequest creates a site.
type CreateSiteRequest struct {
	EntityID          uint     `json:"entity_id"             binding:"required,min=1"`
	Name              string   `json:"name"                  binding:"required,min=2,max=200"`
	SiteCode          string   `json:"site_code"             binding:"required,min=2,max=20"`
	Description       string   `json:"description"           binding:"omitempty,max=1000"`
	Address           string   `json:"address"               binding:"omitempty,max=500"`
	City              string   `json:"city"                  binding:"omitempty,max=100"`
	State             string   `json:"state"                 binding:"omitempty,max=100"`
	PostalCode        string   `json:"postal_code"           binding:"omitempty,max=10"`
	Latitude          *float64 `json:"latitude"              binding:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude"             binding:"omitempty,min=-180,max=180"`
	OperationalStatus string   `json:"operational_status"    binding:"omitempty,oneof=OPERATIONAL MAINTENANCE SHUTDOWN COMMISSIONING DECOMMISSIONED"`
	PlantType         string   `json:"plant_type"            binding:"omitempty,oneof=SOLAR WIND THERMAL HYDRO NUCLEAR BIOMASS GEOTHERMAL HYBRID OTHER"`
	CapacityMW        *float64 `json:"capacity_mw"           binding:"omitempty,min=0"`
	EnabledForms      []string `json:"enabled_forms"         binding:"omitempty,dive,oneof=UNSAFE_ACT UNSAFE_CONDITION NEAR_MISS FEEDBACK ACCIDENT"`
	CommissionedDate  string   `json:"commissioned_date"     binding:"omitempty,datetime=2006-01-02"`
	Phone             string   `json:"phone"                 binding:"omitempty,max=20"`
	Email             string   `json:"email"                 binding:"omitempty,email"`
}

// UpdateSiteRequest patches a site. Nil fields stay unchanged.
type UpdateSiteRequest struct {
	Name                *string  `json:"name"                  binding:"omitempty,min=2,max=200"`
	Description         *string  `json:"description"           binding:"omitempty,max=1000"`
	Address             *string  `json:"address"               binding:"omitempty,max=500"`
	City                *string  `json:"city"                  binding:"omitempty,max=100"`
	State               *string  `json:"state"                 binding:"omitempty,max=100"`
	PostalCode          *string  `json:"postal_code"           binding:"omitempty,max=10"`
	Latitude            *float64 `json:"latitude"              binding:"omitempty,min=-90,max=90"`
	Longitude           *float64 `json:"longitude"             binding:"omitempty,min=-180,max=180"`
	OperationalStatus   *string  `json:"operational_status"    binding:"omitempty,oneof=OPERATIONAL MAINTENANCE SHUTDOWN COMMISSIONING DECOMMISSIONED"`
	PlantType           *string  `json:"plant_type"            binding:"omitempty,oneof=SOLAR WIND THERMAL HYDRO NUCLEAR BIOMASS GEOTHERMAL HYBRID OTHER"`
	CapacityMW          *float64 `json:"capacity_mw"           binding:"omitempty,min=0"`
	EnabledForms        []string `json:"enabled_forms"         binding:"omitempty,dive,oneof=UNSAFE_ACT UNSAFE_CONDITION NEAR_MISS FEEDBACK ACCIDENT"`
	CommissionedDate    *string  `json:"commissioned_date"     binding:"omitempty,datetime=2006-01-02"`
	LastMaintenanceDate *string  `json:"last_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	NextMaintenanceDate *string  `json:"next_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	Phone               *string  `json:"phone"                 binding:"omitempty,max=20"`
	Email               *string  `json:"email"                 binding:"omitempty,email"`
	IsActive            *bool    `json:"is_active"`
}

// UpdateSiteStatusRequest changes only the operational status.
type UpdateSiteStatusRequest struct {
	OperationalStatus string `json:"operational_status" binding:"required,oneof=OPERATIONAL MAINTENANCE SHUTDOWN COMMISSIONING DECOMMISSIONED"`
}

// SiteListRequest filters the site list.
type SiteListRequest struct {
	PaginationRequest
	EntityID        uint   `form:"entity_id"        binding:"omitempty,min=1"`
	CompanyID       uint   `form:"company_id"       binding:"omitempty,min=1"`
	CompanyCode     string `form:"company_code"     binding:"omitempty,max=20"`
	Status          string `form:"status"           binding:"omitempty,oneof=OPERATIONAL MAINTENANCE SHUTDOWN COMMISSIONING DECOMMISSIONED"`
	PlantType       string `form:"plant_type"       binding:"omitempty,oneof=SOLAR WIND THERMAL HYDRO NUCLEAR BIOMASS GEOTHERMAL HYBRID OTHER"`
	State           string `form:"state"            binding:"omitempty,max=100"`
	ActiveOnly      bool   `form:"active_only"`
	OperationalOnly bool   `form:"operational_only"`
	Search          string `form:"search"           binding:"omitempty,max=100"`
	Ordering        string `form:"ordering"         binding:"omitempty,oneof=name -name site_code -site_code created_at -created_at capacity_mw -capacity_mw"`
}

// SiteResponse is the site wire projection.
type SiteResponse struct {
	ID                  uint     `json:"id"`
	EntityID            uint     `json:"entity_id"`
	EntityName          string   `json:"entity_name,omitempty"`
	EntityCode          string   `json:"entity_code,omitempty"`
	CompanyName         string   `json:"company_name,omitempty"`
	CompanyCode         string   `json:"company_code,omitempty"`
	Name                string   `json:"name"`
	SiteCode            string   `json:"site_code"`
	Description         string   `json:"description,omitempty"`
	Address             string   `json:"address,omitempty"`
	City                string   `json:"city,omitempty"`
	State               string   `json:"state,omitempty"`
	PostalCode          string   `json:"postal_code,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	OperationalStatus   string   `json:"operational_status"`
	PlantType           string   `json:"plant_type"`
	CapacityMW          *float64 `json:"capacity_mw,omitempty"`
	EnabledForms        []string `json:"enabled_forms"`
	CommissionedDate    string   `json:"commissioned_date,omitempty"`
	LastMaintenanceDate string   `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate string   `json:"next_maintenance_date,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Email               string   `json:"email,omitempty"`
	IsActive            bool     `json:"is_active"`
	IsOperational       bool     `json:"is_operational"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// NewSiteResponse maps a model row. Entity (and its Company) should be
// preloaded for the code/name fields to fill.
func NewSiteResponse(s *model.Site) SiteResponse {
	resp := SiteResponse{
		ID:                  s.ID,
		EntityID:            s.EntityID,
		Name:                s.Name,
		SiteCode:            s.SiteCode,
		Description:         s.Description,
		Address:             s.Address,
		City:                s.City,
		State:               s.State,
		PostalCode:          s.PostalCode,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		OperationalStatus:   s.OperationalStatus,
		PlantType:           s.PlantType,
		CapacityMW:          s.CapacityMW,
		EnabledForms:        s.EnabledForms,
		CommissionedDate:    FormatDatePtr(s.CommissionedDate),
		LastMaintenanceDate: FormatDatePtr(s.LastMaintenanceDate),
		NextMaintenanceDate: FormatDatePtr(s.NextMaintenanceDate),
		Phone:               s.Phone,
		Email:               s.Email,
		IsActive:            s.IsActive,
		IsOperational:       s.IsOperational(),
		CreatedAt:           FormatTime(s.CreatedAt),
		UpdatedAt:           FormatTime(s.UpdatedAt),
	}
	if resp.EnabledForms == nil {
		resp.EnabledForms = []string{}
	}
	if s.Entity != nil {
		resp.EntityName = s.Entity.Name
		resp.EntityCode = s.Entity.EntityCode
		if s.Entity.Company != nil {
			resp.CompanyName = s.Entity.Company.Name
			resp.CompanyCode = s.Entity.Company.CompanyCode
		}
	}
	return resp
}

// AvailableCompanyResponse is the dropdown projection for site forms.
type AvailableCompanyResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CompanyCode string `json:"company_code"`
	EntityCount int64  `json:"entity_count"`
}

// SiteStatsResponse is the site dashboard projection.
type SiteStatsResponse struct {
	TotalSites        int64            `json:"total_sites"`
	ActiveSites       int64            `json:"active_sites"`
	OperationalSites  int64            `json:"operational_sites"`
	PlantDistribution map[string]int64 `json:"plant_distribution"`
	StateDistribution map[string]int64 `json:"state_distribution"`
	RecentSites       []SiteResponse   `json:"recent_sites"`
}

// QRResponse carries a generated QR image and its payload.
type QRResponse struct {
	QRCode    string `json:"qr_code"` // base64 PNG data URL
	PublicURL string `json:"public_url"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}
