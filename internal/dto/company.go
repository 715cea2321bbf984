package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── company DTOs ──

// CreateCompanyRequest creates a company.
type CreateCompanyRequest struct {
	Name            string `json:"name"              binding:"required,min=2,max=200"`
	CompanyCode     string `json:"company_code"      binding:"required,min=2,max=20"`
	CompanyType     string `json:"company_type"      binding:"omitempty,oneof=PARENT SUBSIDIARY DIVISION"`
	ParentCompanyID *uint  `json:"parent_company_id" binding:"omitempty,min=1"`
	Address         string `json:"address"           binding:"omitempty,max=500"`
	City            string `json:"city"              binding:"omitempty,max=100"`
	State           string `json:"state"             binding:"omitempty,max=100"`
	Country         string `json:"country"           binding:"omitempty,max=100"`
	CountryCode     string `json:"country_code"      binding:"omitempty,len=3"`
	PostalCode      string `json:"postal_code"       binding:"omitempty,max=10"`
	Phone           string `json:"phone"             binding:"omitempty,max=20"`
	Email           string `json:"email"             binding:"omitempty,email"`
	Website         string `json:"website"           binding:"omitempty,max=200,url"`
}

// UpdateCompanyRequest patches a company. Nil fields stay unchanged.
type UpdateCompanyRequest struct {
	Name            *string `json:"name"              binding:"omitempty,min=2,max=200"`
	CompanyType     *string `json:"company_type"      binding:"omitempty,oneof=PARENT SUBSIDIARY DIVISION"`
	ParentCompanyID *uint   `json:"parent_company_id" binding:"omitempty,min=1"`
	Address         *string `json:"address"           binding:"omitempty,max=500"`
	City            *string `json:"city"              binding:"omitempty,max=100"`
	State           *string `json:"state"             binding:"omitempty,max=100"`
	Country         *string `json:"country"           binding:"omitempty,max=100"`
	CountryCode     *string `json:"country_code"      binding:"omitempty,len=3"`
	PostalCode      *string `json:"postal_code"       binding:"omitempty,max=10"`
	Phone           *string `json:"phone"             binding:"omitempty,max=20"`
	Email           *string `json:"email"             binding:"omitempty,email"`
	Website         *string `json:"website"           binding:"omitempty,max=200,url"`
	IsActive        *bool   `json:"is_active"`
}

// CompanyListRequest filters the company list.
type CompanyListRequest struct {
	PaginationRequest
	CompanyType string `form:"company_type" binding:"omitempty,oneof=PARENT SUBSIDIARY DIVISION"`
	ActiveOnly  bool   `form:"active_only"`
	Search      string `form:"search"       binding:"omitempty,max=100"`
	Ordering    string `form:"ordering"     binding:"omitempty,oneof=name -name company_code -company_code created_at -created_at"`
}

// CompanyResponse is the company wire projection.
type CompanyResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	CompanyCode       string `json:"company_code"`
	CompanyType       string `json:"company_type"`
	ParentCompanyID   *uint  `json:"parent_company_id,omitempty"`
	ParentCompanyName string `json:"parent_company_name,omitempty"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Country           string `json:"country"`
	CountryCode       string `json:"country_code"`
	PostalCode        string `json:"postal_code,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	Website           string `json:"website,omitempty"`
	IsActive          bool   `json:"is_active"`
	EntityCount       int64  `json:"entity_count"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// NewCompanyResponse maps a model row.
func NewCompanyResponse(c *model.Company, entityCount int64) CompanyResponse {
	resp := CompanyResponse{
		ID:              c.ID,
		Name:            c.Name,
		CompanyCode:     c.CompanyCode,
		CompanyType:     c.CompanyType,
		ParentCompanyID: c.ParentCompanyID,
		Address:         c.Address,
		City:            c.City,
		State:           c.State,
		Country:         c.Country,
		CountryCode:     c.CountryCode,
		PostalCode:      c.PostalCode,
		Phone:           c.Phone,
		Email:           c.Email,
		Website:         c.Website,
		IsActive:        c.IsActive,
		EntityCount:     entityCount,
		CreatedAt:       FormatTime(c.CreatedAt),
		UpdatedAt:       FormatTime(c.UpdatedAt),
	}
	if c.ParentCompany != nil {
		resp.ParentCompanyName = c.ParentCompany.Name
	}
	return resp
}

// CompanyStatsResponse is the company dashboard projection.
type CompanyStatsResponse struct {
	TotalCompanies  int64            `json:"total_companies"`
	ActiveCompanies int64            `json:"active_companies"`
	ByType          map[string]int64 `json:"by_type"`
	ByState         map[string]int64 `json:"by_state"`
}
