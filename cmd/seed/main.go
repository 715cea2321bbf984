package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/database"
	applogger "github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/logger"
)

// Seeds the Hexa Climate demo hierarchy: the parent company, its
// divisions, sample sites, a demo employee and the emergency numbers.
// Safe to run repeatedly; every row is written get-or-create.
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return seed(tx, logger)
	}); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	logger.Info("seed completed")
}

func seed(tx *gorm.DB, logger *zap.Logger) error {
	// ── parent company ──

	company := model.Company{CompanyCode: "HEXA001"}
	if err := tx.Where(&model.Company{CompanyCode: "HEXA001"}).Attrs(model.Company{
		Name:        "Hexa Climate",
		CompanyType: model.CompanyTypeParent,
		Address:     "Kumbhari, Maharashtra, India",
		City:        "Kumbhari",
		State:       "Maharashtra",
		Country:     "India",
		CountryCode: "IND",
		PostalCode:  "413001",
		Phone:       "9660027799",
		Email:       "info@hexaclimate.com",
		Website:     "https://hexaclimate.com",
		IsActive:    true,
	}).FirstOrCreate(&company).Error; err != nil {
		return fmt.Errorf("seed company: %w", err)
	}
	logger.Info("company ready", zap.String("company_code", company.CompanyCode))

	// ── entities ──

	entitySeeds := []model.Entity{
		{
			EntityCode:  "SOLAR",
			Name:        "Solar Division",
			Description: "Solar power plant operations and maintenance",
			City:        "Kumbhari",
			State:       "Maharashtra",
		},
		{
			EntityCode:  "CONSTR",
			Name:        "Construction Division",
			Description: "Construction and project management",
			City:        "Kumbhari",
			State:       "Maharashtra",
		},
		{
			EntityCode:  "MAINT",
			Name:        "Maintenance Division",
			Description: "Plant maintenance and technical services",
			City:        "Kumbhari",
			State:       "Maharashtra",
		},
		{
			EntityCode:  "REGION",
			Name:        "Regional Office",
			Description: "Regional management and coordination",
			City:        "Mumbai",
			State:       "Maharashtra",
		},
	}

	entities := make(map[string]model.Entity, len(entitySeeds))
	for _, e := range entitySeeds {
		entity := model.Entity{CompanyID: company.ID, EntityCode: e.EntityCode}
		attrs := e
		attrs.CompanyID = company.ID
		attrs.IsActive = true
		if err := tx.Where(&model.Entity{CompanyID: company.ID, EntityCode: e.EntityCode}).
			Attrs(attrs).FirstOrCreate(&entity).Error; err != nil {
			return fmt.Errorf("seed entity %s: %w", e.EntityCode, err)
		}
		entities[e.EntityCode] = entity
		logger.Info("entity ready", zap.String("entity_code", entity.EntityCode))
	}

	// ── sites ──

	capacity := func(mw float64) *float64 { return &mw }
	coord := func(v float64) *float64 { return &v }

	siteSeeds := []struct {
		entityCode string
		site       model.Site
	}{
		{
			entityCode: "SOLAR",
			site: model.Site{
				SiteCode:   "HEXAKUMBHARI",
				Name:       "30MWp Hexa Kumbhari Plant",
				PlantType:  model.PlantTypeSolar,
				CapacityMW: capacity(30),
				Address:    "Kumbhari, Maharashtra, India",
				City:       "Kumbhari",
				State:      "Maharashtra",
			},
		},
		{
			entityCode: "CONSTR",
			site: model.Site{
				SiteCode:  "CONSTRA",
				Name:      "Construction Site A",
				PlantType: model.PlantTypeOther,
				Address:   "Kumbhari, Maharashtra, India",
				City:      "Kumbhari",
				State:     "Maharashtra",
			},
		},
		{
			entityCode: "MAINT",
			site: model.Site{
				SiteCode:  "MAINTHUB",
				Name:      "Maintenance Hub",
				PlantType: model.PlantTypeOther,
				Address:   "Kumbhari, Maharashtra, India",
				City:      "Kumbhari",
				State:     "Maharashtra",
			},
		},
	}

	var solarSite model.Site
	for _, s := range siteSeeds {
		entity := entities[s.entityCode]
		site := model.Site{EntityID: entity.ID, SiteCode: s.site.SiteCode}
		attrs := s.site
		attrs.EntityID = entity.ID
		attrs.Latitude = coord(19.0760)
		attrs.Longitude = coord(72.8777)
		attrs.Phone = "9660027799"
		attrs.Email = "info@hexaclimate.com"
		attrs.OperationalStatus = model.SiteStatusOperational
		attrs.EnabledForms = model.DefaultEnabledForms()
		attrs.IsActive = true
		if err := tx.Where(&model.Site{EntityID: entity.ID, SiteCode: s.site.SiteCode}).
			Attrs(attrs).FirstOrCreate(&site).Error; err != nil {
			return fmt.Errorf("seed site %s: %w", s.site.SiteCode, err)
		}
		if site.SiteCode == "HEXAKUMBHARI" {
			solarSite = site
		}
		logger.Info("site ready", zap.String("site_code", site.SiteCode))
	}

	// ── demo employee with an emergency-contact assignment ──

	employee := model.Employee{EmployeeCode: "EMP001"}
	if err := tx.Where(&model.Employee{EmployeeCode: "EMP001"}).Attrs(model.Employee{
		FirstName:   "Amit",
		LastName:    "Sharma",
		Email:       "amit.sharma@hexaclimate.com",
		Phone:       "9660027799",
		Designation: "Site Supervisor",
		Department:  "Operations",
		IsActive:    true,
	}).FirstOrCreate(&employee).Error; err != nil {
		return fmt.Errorf("seed employee: %w", err)
	}

	assignment := model.EmployeeLocation{
		EmployeeID:   employee.ID,
		LocationType: model.LocationSite,
		LocationID:   strconv.FormatUint(uint64(solarSite.ID), 10),
	}
	if err := tx.Where(&model.EmployeeLocation{
		EmployeeID:   employee.ID,
		LocationType: model.LocationSite,
		LocationID:   assignment.LocationID,
	}).Attrs(model.EmployeeLocation{
		IsPrimary:               true,
		ShowInEmergencyContacts: true,
		IsActive:                true,
	}).FirstOrCreate(&assignment).Error; err != nil {
		return fmt.Errorf("seed assignment: %w", err)
	}
	logger.Info("employee ready", zap.String("employee_code", employee.EmployeeCode))

	// ── site emergency contact ──

	siteID := solarSite.ID
	contact := model.EmergencyContact{
		SiteID:      &siteID,
		ContactType: model.ContactTypeSafetyIncharge,
		Name:        "Amit Sharma",
	}
	if err := tx.Where(map[string]interface{}{
		"site_id":      siteID,
		"contact_type": model.ContactTypeSafetyIncharge,
		"name":         "Amit Sharma",
	}).Attrs(model.EmergencyContact{
		Designation:   "Site Supervisor",
		PrimaryPhone:  "9660027799",
		Email:         "amit.sharma@hexaclimate.com",
		Is24x7:        true,
		IsPrimary:     true,
		PriorityOrder: 1,
		IsActive:      true,
	}).FirstOrCreate(&contact).Error; err != nil {
		return fmt.Errorf("seed site contact: %w", err)
	}

	// ── national emergency numbers ──

	nationalSeeds := []model.NationalEmergencyContact{
		{ContactType: model.NationalContactPolice, Name: "Police", PhoneNumber: "100", Description: "National police emergency number"},
		{ContactType: model.NationalContactFire, Name: "Fire Brigade", PhoneNumber: "101", Description: "National fire emergency number"},
		{ContactType: model.NationalContactAmbulance, Name: "Ambulance", PhoneNumber: "108", Description: "National ambulance service"},
		{ContactType: model.NationalContactDisasterManagement, Name: "Disaster Management", PhoneNumber: "1078", Description: "National disaster management helpline"},
	}
	for _, n := range nationalSeeds {
		row := model.NationalEmergencyContact{ContactType: n.ContactType, Name: n.Name}
		attrs := n
		attrs.IsActive = true
		if err := tx.Where(&model.NationalEmergencyContact{ContactType: n.ContactType, Name: n.Name}).
			Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed national contact %s: %w", n.Name, err)
		}
	}
	logger.Info("emergency numbers ready")

	return nil
}
