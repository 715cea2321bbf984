package dto

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"

// ── employee DTOs ──

// CreateEmployeeRequest creates a directory record.
type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required,min=2,max=20"`
	FirstName    string `json:"first_name"    binding:"required,min=1,max=100"`
	LastName     string `json:"last_name"     binding:"omitempty,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	Phone        string `json:"phone"         binding:"omitempty,max=20"`
	Designation  string `json:"designation"   binding:"omitempty,max=100"`
	Department   string `json:"department"    binding:"omitempty,max=100"`
}

// UpdateEmployeeRequest patches a directory record. Nil fields stay unchanged.
type UpdateEmployeeRequest struct {
	FirstName   *string `json:"first_name"  binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name"   binding:"omitempty,max=100"`
	Email       *string `json:"email"       binding:"omitempty,email"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	Designation *string `json:"designation" binding:"omitempty,max=100"`
	Department  *string `json:"department"  binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// EmployeeListRequest filters the employee list.
type EmployeeListRequest struct {
	PaginationRequest
	ActiveOnly bool   `form:"active_only"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Search     string `form:"search"     binding:"omitempty,max=100"`
}

// EmployeeResponse is the employee wire projection.
type EmployeeResponse struct {
	ID           uint                       `json:"id"`
	EmployeeCode string                     `json:"employee_code"`
	FirstName    string                     `json:"first_name"`
	LastName     string                     `json:"last_name,omitempty"`
	FullName     string                     `json:"full_name"`
	Email        string                     `json:"email"`
	Phone        string                     `json:"phone,omitempty"`
	Designation  string                     `json:"designation,omitempty"`
	Department   string                     `json:"department,omitempty"`
	IsActive     bool                       `json:"is_active"`
	Locations    []EmployeeLocationResponse `json:"locations,omitempty"`
	CreatedAt    string                     `json:"created_at"`
	UpdatedAt    string                     `json:"updated_at"`
}

// NewEmployeeResponse maps a model row.
func NewEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Phone:        e.Phone,
		Designation:  e.Designation,
		Department:   e.Department,
		IsActive:     e.IsActive,
		CreatedAt:    FormatTime(e.CreatedAt),
		UpdatedAt:    FormatTime(e.UpdatedAt),
	}
}

// ── employee location DTOs ──

// CreateEmployeeLocationRequest assigns an employee to a location.
// location_id carries a sentinel string for headquarters/company and a
// numeric id for entity/site.
type CreateEmployeeLocationRequest struct {
	EmployeeID              uint   `json:"employee_id"                binding:"required,min=1"`
	LocationType            string `json:"location_type"              binding:"required,oneof=headquarters company entity site"`
	LocationID              string `json:"location_id"                binding:"required,max=20"`
	IsPrimary               bool   `json:"is_primary"`
	ShowInEmergencyContacts bool   `json:"show_in_emergency_contacts"`
}

// UpdateEmployeeLocationRequest patches an assignment's flags. The
// location reference itself is immutable; delete and recreate to move.
type UpdateEmployeeLocationRequest struct {
	IsPrimary               *bool `json:"is_primary"`
	ShowInEmergencyContacts *bool `json:"show_in_emergency_contacts"`
	IsActive                *bool `json:"is_active"`
}

// EmployeeLocationListRequest filters the assignment list.
type EmployeeLocationListRequest struct {
	PaginationRequest
	EmployeeID   uint   `form:"employee_id"   binding:"omitempty,min=1"`
	LocationType string `form:"location_type" binding:"omitempty,oneof=headquarters company entity site"`
	LocationID   string `form:"location_id"   binding:"omitempty,max=20"`
	ActiveOnly   bool   `form:"active_only"`
}

// EmployeeLocationResponse is the assignment wire projection. The
// (location_type, location_id) pair keeps its wire form; location_name is
// the resolved display name.
type EmployeeLocationResponse struct {
	ID                      uint   `json:"id"`
	EmployeeID              uint   `json:"employee_id"`
	EmployeeName            string `json:"employee_name,omitempty"`
	LocationType            string `json:"location_type"`
	LocationID              string `json:"location_id"`
	LocationName            string `json:"location_name"`
	IsPrimary               bool   `json:"is_primary"`
	ShowInEmergencyContacts bool   `json:"show_in_emergency_contacts"`
	IsActive                bool   `json:"is_active"`
	CreatedAt               string `json:"created_at"`
}

// EmployeeStatsResponse is the employee dashboard projection.
type EmployeeStatsResponse struct {
	TotalEmployees    int64            `json:"total_employees"`
	ActiveEmployees   int64            `json:"active_employees"`
	EmergencyContacts int64            `json:"emergency_contacts"`
	ByDepartment      map[string]int64 `json:"by_department"`
}

// EmergencyContactEmployee is one resolved directory entry for the
// emergency-contacts query.
type EmergencyContactEmployee struct {
	EmployeeID   uint   `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Designation  string `json:"designation,omitempty"`
	LocationType string `json:"location_type"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
}
