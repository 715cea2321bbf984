package model

import "strings"

// Entity is a business unit under a Company (table entities).
// entity_code is unique per company, not globally.
type Entity struct {
	ID          uint     `gorm:"primaryKey"                                        json:"id"`
	CompanyID   uint     `gorm:"not null;index;uniqueIndex:uq_entities_company_code" json:"company_id"`
	Company     *Company `gorm:"foreignKey:CompanyID"                              json:"company,omitempty"`
	Name        string   `gorm:"type:varchar(200);not null"                        json:"name"`
	EntityCode  string   `gorm:"type:varchar(20);not null;uniqueIndex:uq_entities_company_code" json:"entity_code"`
	Description string   `gorm:"type:text"                                         json:"description,omitempty"`
	Address     string   `gorm:"type:text"                                         json:"address,omitempty"`
	City        string   `gorm:"type:varchar(100)"                                 json:"city,omitempty"`
	State       string   `gorm:"type:varchar(100)"                                 json:"state,omitempty"`
	PostalCode  string   `gorm:"type:varchar(10)"                                  json:"postal_code,omitempty"`
	Phone       string   `gorm:"type:varchar(20)"                                  json:"phone,omitempty"`
	Email       string   `gorm:"type:varchar(254)"                                 json:"email,omitempty"`
	IsActive    bool     `gorm:"not null;default:true"                             json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Entity) TableName() string { return "entities" }

// FullAddress returns the entity address, falling back to the company
// address when the entity has none of its own. Requires Company preloaded
// for the fallback to apply.
func (e *Entity) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.Address, e.City, e.State, e.PostalCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if e.Company != nil {
		companyParts := make([]string, 0, 4)
		for _, p := range []string{e.Company.Address, e.Company.City, e.Company.State, e.Company.PostalCode} {
			if strings.TrimSpace(p) != "" {
				companyParts = append(companyParts, p)
			}
		}
		return strings.Join(companyParts, ", ")
	}
	return ""
}
