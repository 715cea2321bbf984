package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── entity DTOs ──

// CreateEntityRequest creates a business unit.
type CreateEntityRequest struct {
	CompanyID   uint   `json:"company_id"  binding:"required,min=1"`
	Name        string `json:"name"        binding:"required,min=2,max=200"`
	EntityCode  string `json:"entity_code" binding:"required,min=2,max=20"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Address     string `json:"address"     binding:"omitempty,max=500"`
	City        string `json:"city"        binding:"omitempty,max=100"`
	State       string `json:"state"       binding:"omitempty,max=100"`
	PostalCode  string `json:"postal_code" binding:"omitempty,max=10"`
	Phone       string `json:"phone"       binding:"omitempty,max=20"`
	Email       string `json:"email"       binding:"omitempty,email"`
}

// UpdateEntityRequest patches a business unit. Nil fields stay unchanged.
type UpdateEntityRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     *string `json:"address"     binding:"omitempty,max=500"`
	City        *string `json:"city"        binding:"omitempty,max=100"`
	State       *string `json:"state"       binding:"omitempty,max=100"`
	PostalCode  *string `json:"postal_code" binding:"omitempty,max=10"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	Email       *string `json:"email"       binding:"omitempty,email"`
	IsActive    *bool   `json:"is_active"`
}

// EntityListRequest filters the entity list.
type EntityListRequest struct {
	PaginationRequest
	CompanyID   uint   `form:"company_id"   binding:"omitempty,min=1"`
	CompanyCode string `form:"company_code" binding:"omitempty,max=20"`
	ActiveOnly  bool   `form:"active_only"`
	Search      string `form:"search"       binding:"omitempty,max=100"`
}

// EntityResponse is the entity wire projection.
type EntityResponse struct {
	ID          uint   `json:"id"`
	CompanyID   uint   `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	CompanyCode string `json:"company_code,omitempty"`
	Name        string `json:"name"`
	EntityCode  string `json:"entity_code"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	SiteCount   int64  `json:"site_count"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// NewEntityResponse maps a model row.
func NewEntityResponse(e *model.Entity, siteCount int64) EntityResponse {
	resp := EntityResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Name:        e.Name,
		EntityCode:  e.EntityCode,
		Description: e.Description,
		Address:     e.Address,
		City:        e.City,
		State:       e.State,
		PostalCode:  e.PostalCode,
		FullAddress: e.FullAddress(),
		Phone:       e.Phone,
		Email:       e.Email,
		SiteCount:   siteCount,
		IsActive:    e.IsActive,
		CreatedAt:   FormatTime(e.CreatedAt),
		UpdatedAt:   FormatTime(e.UpdatedAt),
	}
	if e.Company != nil {
		resp.CompanyName = e.Company.Name
		resp.CompanyCode = e.Company.CompanyCode
	}
	return resp
}
