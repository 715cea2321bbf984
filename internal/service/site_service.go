package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
)

// ── site business errors ──

var (
	ErrSiteNotFound       = errors.New("site not found")
	ErrSiteCodeExists     = errors.New("site code already exists for this entity")
	ErrSiteEntityGone     = errors.New("entity not found or inactive")
	ErrSiteCoordinatePair = errors.New("latitude and longitude must be provided together")
)

const dateLayout = "2006-01-02"

// SiteService is the site business interface.
type SiteService interface {
	Create(ctx context.Context, req *dto.CreateSiteRequest) (*dto.SiteResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.SiteResponse, error)
	List(ctx context.Context, req *dto.SiteListRequest) ([]dto.SiteResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateSiteRequest) (*dto.SiteResponse, error)
	// Delete deactivates the site. The row stays so its incident history
	// survives.
	Delete(ctx context.Context, id uint) error
	ToggleStatus(ctx context.Context, id uint) (*dto.SiteResponse, error)
	UpdateOperationalStatus(ctx context.Context, id uint, req *dto.UpdateSiteStatusRequest) (*dto.SiteResponse, error)
	QR(ctx context.Context, id uint) (*dto.QRResponse, error)
	QRURL(ctx context.Context, id uint) (*dto.QRResponse, error)
	AvailableCompanies(ctx context.Context) ([]dto.AvailableCompanyResponse, error)
	Stats(ctx context.Context) (*dto.SiteStatsResponse, error)
	// MaintenanceCalendar renders the site's commissioning and maintenance
	// dates as an iCalendar feed.
	MaintenanceCalendar(ctx context.Context, id uint) (string, string, error)
	// PublicLookup backs the QR landing page. The reserved headquarters
	// code resolves to the configured organization as a pseudo-site.
	PublicLookup(ctx context.Context, companyCode, siteCode string) (*dto.PublicSiteResponse, error)
}

type siteService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSiteService creates a SiteService instance.
func NewSiteService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SiteService {
	return &siteService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *siteService) Create(ctx context.Context, req *dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	entity, err := s.repo.Entity.GetByID(ctx, req.EntityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteEntityGone
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}
	if !entity.IsActive {
		return nil, ErrSiteEntityGone
	}

	existing, err := s.repo.Site.GetByEntityAndCode(ctx, req.EntityID, req.SiteCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("site lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrSiteCodeExists
	}

	if !model.ValidCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrSiteCoordinatePair
	}

	site := &model.Site{
		EntityID:          req.EntityID,
		Name:              req.Name,
		SiteCode:          req.SiteCode,
		Description:       req.Description,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		PostalCode:        req.PostalCode,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		OperationalStatus: req.OperationalStatus,
		PlantType:         req.PlantType,
		CapacityMW:        req.CapacityMW,
		EnabledForms:      req.EnabledForms,
		Phone:             req.Phone,
		Email:             req.Email,
		IsActive:          true,
	}
	if site.OperationalStatus == "" {
		site.OperationalStatus = model.SiteStatusOperational
	}
	if site.PlantType == "" {
		site.PlantType = model.PlantTypeSolar
	}
	if len(site.EnabledForms) == 0 {
		site.EnabledForms = model.DefaultEnabledForms()
	}
	if req.CommissionedDate != "" {
		d, err := time.Parse(dateLayout, req.CommissionedDate)
		if err == nil {
			site.CommissionedDate = &d
		}
	}

	if err := s.repo.Site.Create(ctx, site); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSiteCodeExists
		}
		s.logger.Error("site create failed", zap.Error(err))
		return nil, err
	}

	return s.toResponse(ctx, site.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *siteService) GetByID(ctx context.Context, id uint) (*dto.SiteResponse, error) {
	return s.toResponse(ctx, id)
}

// ────────────────────── List ──────────────────────

func (s *siteService) List(ctx context.Context, req *dto.SiteListRequest) ([]dto.SiteResponse, int64, error) {
	filters := &repository.SiteListFilters{
		EntityID:        req.EntityID,
		CompanyID:       req.CompanyID,
		CompanyCode:     req.CompanyCode,
		Status:          req.Status,
		PlantType:       req.PlantType,
		State:           req.State,
		ActiveOnly:      req.ActiveOnly,
		OperationalOnly: req.OperationalOnly,
		Search:          req.Search,
		Ordering:        req.Ordering,
	}
	sites, total, err := s.repo.Site.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("site list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		responses = append(responses, dto.NewSiteResponse(&sites[i]))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *siteService) Update(ctx context.Context, id uint, req *dto.UpdateSiteRequest) (*dto.SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Description != nil {
		site.Description = *req.Description
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.City != nil {
		site.City = *req.City
	}
	if req.State != nil {
		site.State = *req.State
	}
	if req.PostalCode != nil {
		site.PostalCode = *req.PostalCode
	}
	if req.Latitude != nil {
		site.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = req.Longitude
	}
	if req.OperationalStatus != nil {
		site.OperationalStatus = *req.OperationalStatus
	}
	if req.PlantType != nil {
		site.PlantType = *req.PlantType
	}
	if req.CapacityMW != nil {
		site.CapacityMW = req.CapacityMW
	}
	if req.EnabledForms != nil {
		site.EnabledForms = req.EnabledForms
	}
	if req.Phone != nil {
		site.Phone = *req.Phone
	}
	if req.Email != nil {
		site.Email = *req.Email
	}
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}
	if err := s.applyDate(req.CommissionedDate, &site.CommissionedDate); err != nil {
		return nil, err
	}
	if err := s.applyDate(req.LastMaintenanceDate, &site.LastMaintenanceDate); err != nil {
		return nil, err
	}
	if err := s.applyDate(req.NextMaintenanceDate, &site.NextMaintenanceDate); err != nil {
		return nil, err
	}

	// The pair rule holds over the merged state, so a lone latitude patch
	// on a site without a longitude is rejected.
	if !model.ValidCoordinates(site.Latitude, site.Longitude) {
		return nil, ErrSiteCoordinatePair
	}

	if err := s.repo.Site.Update(ctx, site); err != nil {
		s.logger.Error("site update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, site.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *siteService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getSite(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Site.Deactivate(ctx, id); err != nil {
		s.logger.Error("site deactivate failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ToggleStatus ──────────────────────

func (s *siteService) ToggleStatus(ctx context.Context, id uint) (*dto.SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}

	site.IsActive = !site.IsActive
	if err := s.repo.Site.Update(ctx, site); err != nil {
		s.logger.Error("site update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, site.ID)
}

// ────────────────────── UpdateOperationalStatus ──────────────────────

func (s *siteService) UpdateOperationalStatus(ctx context.Context, id uint, req *dto.UpdateSiteStatusRequest) (*dto.SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}

	site.OperationalStatus = req.OperationalStatus
	if err := s.repo.Site.Update(ctx, site); err != nil {
		s.logger.Error("site update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, site.ID)
}

// ────────────────────── QR ──────────────────────

func (s *siteService) QR(ctx context.Context, id uint) (*dto.QRResponse, error) {
	resp, err := s.QRURL(ctx, id)
	if err != nil {
		return nil, err
	}
	image, err := qrDataURL(resp.PublicURL)
	if err != nil {
		s.logger.Error("qr encode failed", zap.Error(err))
		return nil, err
	}
	resp.QRCode = image
	return resp, nil
}

// QRURL returns the payload without rendering the image, for clients that
// generate their own QR.
func (s *siteService) QRURL(ctx context.Context, id uint) (*dto.QRResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}

	companyCode := ""
	if site.Entity != nil && site.Entity.Company != nil {
		companyCode = site.Entity.Company.CompanyCode
	}
	return &dto.QRResponse{
		PublicURL: buildPublicURL(s.cfg.Server.PublicBaseURL, companyCode, site.SiteCode),
		Code:      site.SiteCode,
		Name:      site.Name,
	}, nil
}

// ────────────────────── AvailableCompanies ──────────────────────

func (s *siteService) AvailableCompanies(ctx context.Context) ([]dto.AvailableCompanyResponse, error) {
	companies, entityCounts, err := s.repo.Company.ListActiveWithEntityCounts(ctx)
	if err != nil {
		s.logger.Error("company list failed", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.AvailableCompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, dto.AvailableCompanyResponse{
			ID:          companies[i].ID,
			Name:        companies[i].Name,
			CompanyCode: companies[i].CompanyCode,
			EntityCount: entityCounts[companies[i].ID],
		})
	}
	return responses, nil
}

// ────────────────────── Stats ──────────────────────

func (s *siteService) Stats(ctx context.Context) (*dto.SiteStatsResponse, error) {
	total, err := s.repo.Site.Count(ctx, false)
	if err != nil {
		s.logger.Error("site count failed", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Site.Count(ctx, true)
	if err != nil {
		s.logger.Error("site count failed", zap.Error(err))
		return nil, err
	}
	operational, err := s.repo.Site.CountOperational(ctx)
	if err != nil {
		s.logger.Error("site count failed", zap.Error(err))
		return nil, err
	}
	plantDistribution, err := s.repo.Site.GroupCount(ctx, "plant_type")
	if err != nil {
		s.logger.Error("site group count failed", zap.Error(err))
		return nil, err
	}
	stateDistribution, err := s.repo.Site.GroupCount(ctx, "state")
	if err != nil {
		s.logger.Error("site group count failed", zap.Error(err))
		return nil, err
	}
	recent, err := s.repo.Site.Recent(ctx, 5)
	if err != nil {
		s.logger.Error("site recent failed", zap.Error(err))
		return nil, err
	}

	recentResponses := make([]dto.SiteResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, dto.NewSiteResponse(&recent[i]))
	}

	return &dto.SiteStatsResponse{
		TotalSites:        total,
		ActiveSites:       active,
		OperationalSites:  operational,
		PlantDistribution: plantDistribution,
		StateDistribution: stateDistribution,
		RecentSites:       recentResponses,
	}, nil
}

// ────────────────────── MaintenanceCalendar ──────────────────────

func (s *siteService) MaintenanceCalendar(ctx context.Context, id uint) (string, string, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + s.cfg.Organization.Name + "//Site Maintenance//EN")
	now := time.Now().UTC()

	addAllDay := func(uid, summary string, date *time.Time) {
		if date == nil {
			return
		}
		event := cal.AddEvent(fmt.Sprintf("%s-%d@%s", uid, site.ID, site.SiteCode))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(*date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(summary)
		event.SetLocation(site.Name)
	}

	addAllDay("commissioned", "Commissioned: "+site.Name, site.CommissionedDate)
	addAllDay("last-maintenance", "Last maintenance: "+site.Name, site.LastMaintenanceDate)
	addAllDay("next-maintenance", "Scheduled maintenance: "+site.Name, site.NextMaintenanceDate)

	filename := fmt.Sprintf("%s-maintenance.ics", site.SiteCode)
	return cal.Serialize(), filename, nil
}

// ────────────────────── PublicLookup ──────────────────────

func (s *siteService) PublicLookup(ctx context.Context, companyCode, siteCode string) (*dto.PublicSiteResponse, error) {
	if strings.EqualFold(siteCode, s.cfg.Organization.HeadquartersCode) {
		resp := s.headquartersSite(companyCode)
		return &resp, nil
	}

	site, err := s.repo.Site.GetByCodes(ctx, companyCode, siteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		s.logger.Error("public site lookup failed", zap.Error(err))
		return nil, err
	}

	// The landing page stays useful without the contact preview, so a
	// contact query failure degrades instead of failing the lookup.
	var contactResponses []dto.EmergencyContactResponse
	contacts, err := s.repo.EmergencyContact.ListForSite(ctx, site.ID)
	if err != nil {
		s.logger.Warn("public site contacts failed", zap.Error(err))
	} else {
		contactResponses = make([]dto.EmergencyContactResponse, 0, len(contacts))
		for i := range contacts {
			contactResponses = append(contactResponses, dto.NewEmergencyContactResponse(&contacts[i]))
		}
	}

	resp := dto.NewPublicSiteResponse(site, contactResponses)
	return &resp, nil
}

// headquartersSite builds the pseudo-site for the reserved headquarters
// code. The scanned company code is echoed back untouched.
func (s *siteService) headquartersSite(companyCode string) dto.PublicSiteResponse {
	org := s.cfg.Organization
	var lat, lon *float64
	if org.Latitude != 0 || org.Longitude != 0 {
		lat = &org.Latitude
		lon = &org.Longitude
	}
	return dto.PublicSiteResponse{
		Name:              org.Name,
		SiteCode:          org.HeadquartersCode,
		CompanyName:       org.Name,
		CompanyCode:       companyCode,
		Address:           org.Address,
		City:              org.City,
		State:             org.State,
		PostalCode:        org.PostalCode,
		Latitude:          lat,
		Longitude:         lon,
		Phone:             org.Phone,
		Email:             org.Email,
		OperationalStatus: model.SiteStatusOperational,
		EnabledForms: []string{
			model.IncidentTypeUnsafeAct,
			model.IncidentTypeUnsafeCondition,
			model.IncidentTypeNearMiss,
		},
		IsHeadquarters:    true,
		EmergencyContacts: []dto.EmergencyContactResponse{},
	}
}

// ────────────────────── helpers ──────────────────────

func (s *siteService) getSite(ctx context.Context, id uint) (*model.Site, error) {
	site, err := s.repo.Site.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		s.logger.Error("site lookup failed", zap.Error(err))
		return nil, err
	}
	return site, nil
}

// applyDate parses an optional yyyy-mm-dd patch value into dst.
func (s *siteService) applyDate(value *string, dst **time.Time) error {
	if value == nil {
		return nil
	}
	if *value == "" {
		*dst = nil
		return nil
	}
	d, err := time.Parse(dateLayout, *value)
	if err != nil {
		return err
	}
	*dst = &d
	return nil
}

func (s *siteService) toResponse(ctx context.Context, id uint) (*dto.SiteResponse, error) {
	site, err := s.getSite(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSiteResponse(site)
	return &resp, nil
}
