package model

import "strings"

// Employee is a personnel directory record (table employees).
type Employee struct {
	ID           uint   `gorm:"primaryKey"                            json:"id"`
	EmployeeCode string `gorm:"type:varchar(20);not null;uniqueIndex" json:"employee_code"`
	FirstName    string `gorm:"type:varchar(100);not null"            json:"first_name"`
	LastName     string `gorm:"type:varchar(100)"                     json:"last_name,omitempty"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex" json:"email"`
	Phone        string `gorm:"type:varchar(20)"                      json:"phone,omitempty"`
	Designation  string `gorm:"type:varchar(100)"                     json:"designation,omitempty"`
	Department   string `gorm:"type:varchar(100)"                     json:"department,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Employee) TableName() string { return "employees" }

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeLocation assigns an employee to a location reference (table
// employee_locations). The (location_type, location_id) pair is the wire
// form of a LocationRef; an employee holds at most one assignment per
// exact pair.
type EmployeeLocation struct {
	ID                      uint      `gorm:"primaryKey"                                                    json:"id"`
	EmployeeID              uint      `gorm:"not null;index;uniqueIndex:uq_employee_locations_ref"          json:"employee_id"`
	Employee                *Employee `gorm:"foreignKey:EmployeeID"                                         json:"employee,omitempty"`
	LocationType            string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_locations_ref" json:"location_type"`
	LocationID              string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_locations_ref" json:"location_id"`
	IsPrimary               bool      `gorm:"not null;default:false"                                        json:"is_primary"`
	ShowInEmergencyContacts bool      `gorm:"not null;default:false"                                        json:"show_in_emergency_contacts"`
	IsActive                bool      `gorm:"not null;default:true"                                         json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (EmployeeLocation) TableName() string { return "employee_locations" }

// Ref parses the stored pair. The pair was validated at creation, so an
// error here means the row predates validation; callers may treat it as
// unresolvable.
func (el *EmployeeLocation) Ref() (LocationRef, error) {
	return ParseLocationRef(el.LocationType, el.LocationID)
}
