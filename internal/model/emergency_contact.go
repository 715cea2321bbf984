package model

// Site/company contact types.
const (
	ContactTypeSafetyIncharge   = "SAFETY_INCHARGE"
	ContactTypePlantIncharge    = "PLANT_INCHARGE"
	ContactTypeSiteSupervisor   = "SITE_SUPERVISOR"
	ContactTypeSecurity         = "SECURITY"
	ContactTypeMedicalEmergency = "MEDICAL_EMERGENCY"
	ContactTypeFireDepartment   = "FIRE_DEPARTMENT"
	ContactTypePolice           = "POLICE"
	ContactTypeAmbulance        = "AMBULANCE"
	ContactTypeHospital         = "HOSPITAL"
	ContactTypeElectricityBoard = "ELECTRICITY_BOARD"
	ContactTypePollutionControl = "POLLUTION_CONTROL"
	ContactTypeManagement       = "MANAGEMENT"
	ContactTypeOther            = "OTHER"
)

// ContactTypes lists the accepted contact_type values.
var ContactTypes = []string{
	ContactTypeSafetyIncharge, ContactTypePlantIncharge, ContactTypeSiteSupervisor,
	ContactTypeSecurity, ContactTypeMedicalEmergency, ContactTypeFireDepartment,
	ContactTypePolice, ContactTypeAmbulance, ContactTypeHospital,
	ContactTypeElectricityBoard, ContactTypePollutionControl,
	ContactTypeManagement, ContactTypeOther,
}

// EmergencyContact is a named contact attached to a site and/or company
// (table emergency_contacts). Unique per (site, contact_type, name).
type EmergencyContact struct {
	ID             uint     `gorm:"primaryKey"                                                json:"id"`
	SiteID         *uint    `gorm:"index;uniqueIndex:uq_emergency_contacts_site_type_name"    json:"site_id,omitempty"`
	Site           *Site    `gorm:"foreignKey:SiteID"                                         json:"site,omitempty"`
	CompanyID      *uint    `gorm:"index"                                                     json:"company_id,omitempty"`
	Company        *Company `gorm:"foreignKey:CompanyID"                                      json:"company,omitempty"`
	ContactType    string   `gorm:"type:varchar(30);not null;uniqueIndex:uq_emergency_contacts_site_type_name" json:"contact_type"`
	Name           string   `gorm:"type:varchar(100);not null;uniqueIndex:uq_emergency_contacts_site_type_name" json:"name"`
	Designation    string   `gorm:"type:varchar(100)"                                         json:"designation,omitempty"`
	PrimaryPhone   string   `gorm:"type:varchar(20);not null"                                 json:"primary_phone"`
	SecondaryPhone string   `gorm:"type:varchar(20)"                                          json:"secondary_phone,omitempty"`
	Email          string   `gorm:"type:varchar(254)"                                         json:"email,omitempty"`
	Is24x7         bool     `gorm:"column:is_24x7_available;not null;default:false"           json:"is_24x7_available"`
	IsPrimary      bool     `gorm:"not null;default:false"                                    json:"is_primary"`
	PriorityOrder  int      `gorm:"not null;default:0"                                        json:"priority_order"`
	IsActive       bool     `gorm:"not null;default:true"                                     json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (EmergencyContact) TableName() string { return "emergency_contacts" }

// National helpline types.
const (
	NationalContactPolice             = "POLICE"
	NationalContactFire               = "FIRE"
	NationalContactAmbulance          = "AMBULANCE"
	NationalContactDisasterManagement = "DISASTER_MANAGEMENT"
	NationalContactWomenHelpline      = "WOMEN_HELPLINE"
	NationalContactChildHelpline      = "CHILD_HELPLINE"
)

// NationalContactTypes lists the accepted national contact_type values.
var NationalContactTypes = []string{
	NationalContactPolice, NationalContactFire, NationalContactAmbulance,
	NationalContactDisasterManagement, NationalContactWomenHelpline,
	NationalContactChildHelpline,
}

// NationalEmergencyContact is a public helpline number (table
// national_emergency_contacts). Blank state means nationwide.
type NationalEmergencyContact struct {
	ID          uint   `gorm:"primaryKey"                 json:"id"`
	ContactType string `gorm:"type:varchar(30);not null"  json:"contact_type"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	PhoneNumber string `gorm:"type:varchar(20);not null"  json:"phone_number"`
	Description string `gorm:"type:text"                  json:"description,omitempty"`
	State       string `gorm:"type:varchar(100)"          json:"state,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"      json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (NationalEmergencyContact) TableName() string { return "national_emergency_contacts" }

// ValidContactType reports whether t is an accepted site contact_type.
func ValidContactType(t string) bool {
	for _, v := range ContactTypes {
		if v == t {
			return true
		}
	}
	return false
}
