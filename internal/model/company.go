package model

// Company types.
const (
	CompanyTypeParent     = "PARENT"
	CompanyTypeSubsidiary = "SUBSIDIARY"
	CompanyTypeDivision   = "DIVISION"
)

// CompanyTypes lists the accepted company_type values.
var CompanyTypes = []string{CompanyTypeParent, CompanyTypeSubsidiary, CompanyTypeDivision}

// Company is the tenant root (table companies).
type Company struct {
	ID              uint     `gorm:"primaryKey"                          json:"id"`
	Name            string   `gorm:"type:varchar(200);not null"          json:"name"`
	CompanyCode     string   `gorm:"type:varchar(20);not null;uniqueIndex" json:"company_code"`
	CompanyType     string   `gorm:"type:varchar(20);not null;default:PARENT" json:"company_type"`
	ParentCompanyID *uint    `gorm:"index"                               json:"parent_company_id,omitempty"`
	ParentCompany   *Company `gorm:"foreignKey:ParentCompanyID"          json:"parent_company,omitempty"`
	Address         string   `gorm:"type:text"                           json:"address,omitempty"`
	City            string   `gorm:"type:varchar(100)"                   json:"city,omitempty"`
	State           string   `gorm:"type:varchar(100)"                   json:"state,omitempty"`
	Country         string   `gorm:"type:varchar(100);not null;default:India" json:"country"`
	CountryCode     string   `gorm:"type:varchar(3);not null;default:IND" json:"country_code"`
	PostalCode      string   `gorm:"type:varchar(10)"                    json:"postal_code,omitempty"`
	Phone           string   `gorm:"type:varchar(20)"                    json:"phone,omitempty"`
	Email           string   `gorm:"type:varchar(254)"                   json:"email,omitempty"`
	Website         string   `gorm:"type:varchar(200)"                   json:"website,omitempty"`
	IsActive        bool     `gorm:"not null;default:true"               json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Company) TableName() string { return "companies" }

// IsParent reports whether this is a top-level company.
func (c *Company) IsParent() bool { return c.CompanyType == CompanyTypeParent }

// IsSubsidiary reports whether this company belongs to a parent.
func (c *Company) IsSubsidiary() bool {
	return c.CompanyType == CompanyTypeSubsidiary && c.ParentCompanyID != nil
}

// ValidCompanyType reports whether t is an accepted company_type.
func ValidCompanyType(t string) bool {
	for _, v := range CompanyTypes {
		if v == t {
			return true
		}
	}
	return false
}
