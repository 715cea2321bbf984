package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
)

// ── emergency-contact business errors ──

var (
	ErrContactNotFound      = errors.New("emergency contact not found")
	ErrContactExists        = errors.New("contact already exists for this site, type and name")
	ErrContactScopeRequired = errors.New("either site_id or company_id is required")
	ErrContactSiteGone      = errors.New("referenced site not found")
	ErrContactCompanyGone   = errors.New("referenced company not found")
)

// ContactService covers the emergency-contact register, the per-location
// directory and the national helplines.
type ContactService interface {
	Create(ctx context.Context, req *dto.CreateEmergencyContactRequest) (*dto.EmergencyContactResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.EmergencyContactResponse, error)
	List(ctx context.Context, req *dto.EmergencyContactListRequest) ([]dto.EmergencyContactResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateEmergencyContactRequest) (*dto.EmergencyContactResponse, error)
	Delete(ctx context.Context, id uint) error
	// ForLocation combines the registered contacts for a location with
	// the employees flagged for emergency display there.
	ForLocation(ctx context.Context, locationType, locationID string) (*dto.ContactDirectoryResponse, error)
	// National returns nationwide helplines plus any rows for the given
	// state.
	National(ctx context.Context, state string) ([]dto.NationalContactResponse, error)
}

type contactService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewContactService creates a ContactService instance.
func NewContactService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ContactService {
	return &contactService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *contactService) Create(ctx context.Context, req *dto.CreateEmergencyContactRequest) (*dto.EmergencyContactResponse, error) {
	if req.SiteID == nil && req.CompanyID == nil {
		return nil, ErrContactScopeRequired
	}
	if req.SiteID != nil {
		if _, err := s.repo.Site.GetByID(ctx, *req.SiteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrContactSiteGone
			}
			s.logger.Error("contact site lookup failed", zap.Error(err))
			return nil, err
		}
	}
	if req.CompanyID != nil {
		if _, err := s.repo.Company.GetByID(ctx, *req.CompanyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrContactCompanyGone
			}
			s.logger.Error("contact company lookup failed", zap.Error(err))
			return nil, err
		}
	}

	if _, err := s.repo.EmergencyContact.GetBySiteTypeName(ctx, req.SiteID, req.ContactType, req.Name); err == nil {
		return nil, ErrContactExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("contact uniqueness check failed", zap.Error(err))
		return nil, err
	}

	contact := &model.EmergencyContact{
		SiteID:         req.SiteID,
		CompanyID:      req.CompanyID,
		ContactType:    req.ContactType,
		Name:           req.Name,
		Designation:    req.Designation,
		PrimaryPhone:   req.PrimaryPhone,
		SecondaryPhone: req.SecondaryPhone,
		Email:          req.Email,
		Is24x7:         req.Is24x7,
		IsPrimary:      req.IsPrimary,
		PriorityOrder:  req.PriorityOrder,
		IsActive:       true,
	}
	if err := s.repo.EmergencyContact.Create(ctx, contact); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrContactExists
		}
		s.logger.Error("contact create failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("emergency contact created",
		zap.String("contact_type", contact.ContactType),
		zap.String("name", contact.Name),
	)
	return s.toResponse(ctx, contact.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *contactService) GetByID(ctx context.Context, id uint) (*dto.EmergencyContactResponse, error) {
	return s.toResponse(ctx, id)
}

// ────────────────────── List ──────────────────────

func (s *contactService) List(ctx context.Context, req *dto.EmergencyContactListRequest) ([]dto.EmergencyContactResponse, int64, error) {
	filters := &repository.EmergencyContactListFilters{
		SiteID:        req.SiteID,
		CompanyID:     req.CompanyID,
		ContactType:   req.ContactType,
		ActiveOnly:    req.ActiveOnly,
		AvailableOnly: req.Available,
	}
	contacts, total, err := s.repo.EmergencyContact.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("contact list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EmergencyContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, dto.NewEmergencyContactResponse(&contacts[i]))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *contactService) Update(ctx context.Context, id uint, req *dto.UpdateEmergencyContactRequest) (*dto.EmergencyContactResponse, error) {
	contact, err := s.getContact(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ContactType != nil {
		contact.ContactType = *req.ContactType
	}
	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Designation != nil {
		contact.Designation = *req.Designation
	}
	if req.PrimaryPhone != nil {
		contact.PrimaryPhone = *req.PrimaryPhone
	}
	if req.SecondaryPhone != nil {
		contact.SecondaryPhone = *req.SecondaryPhone
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Is24x7 != nil {
		contact.Is24x7 = *req.Is24x7
	}
	if req.IsPrimary != nil {
		contact.IsPrimary = *req.IsPrimary
	}
	if req.PriorityOrder != nil {
		contact.PriorityOrder = *req.PriorityOrder
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	// Renaming or retyping can collide with an existing row on the
	// (site, type, name) unique index.
	if err := s.repo.EmergencyContact.Update(ctx, contact); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrContactExists
		}
		s.logger.Error("contact update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, contact.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *contactService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getContact(ctx, id); err != nil {
		return err
	}
	if err := s.repo.EmergencyContact.Delete(ctx, id); err != nil {
		s.logger.Error("contact delete failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ForLocation ──────────────────────
//
// Registered contacts attach to sites or companies, so site refs return
// the site's register, headquarters and company refs the company-level
// register, and entity refs only the flagged-employee set.

func (s *contactService) ForLocation(ctx context.Context, locationType, locationID string) (*dto.ContactDirectoryResponse, error) {
	ref, err := model.ParseLocationRef(locationType, locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocationRef, err)
	}

	var contacts []model.EmergencyContact
	switch ref.Kind {
	case model.LocationSite:
		contacts, err = s.repo.EmergencyContact.ListForSite(ctx, ref.ID)
	case model.LocationHeadquarters, model.LocationCompany:
		contacts, err = s.repo.EmergencyContact.ListCompanyLevel(ctx)
	}
	if err != nil {
		s.logger.Error("directory contact query failed", zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.EmployeeLocation.ListEmergencyForLocation(ctx, ref.Kind, ref.WireID())
	if err != nil {
		s.logger.Error("directory employee query failed", zap.Error(err))
		return nil, err
	}

	locationName := resolveLocationName(ctx, s.repo, s.cfg.Organization.Name, ref)

	contactResponses := make([]dto.EmergencyContactResponse, 0, len(contacts))
	for i := range contacts {
		contactResponses = append(contactResponses, dto.NewEmergencyContactResponse(&contacts[i]))
	}
	employees := make([]dto.EmergencyContactEmployee, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if a.Employee == nil {
			continue
		}
		employees = append(employees, dto.EmergencyContactEmployee{
			EmployeeID:   a.EmployeeID,
			EmployeeCode: a.Employee.EmployeeCode,
			FullName:     a.Employee.FullName(),
			Email:        a.Employee.Email,
			Phone:        a.Employee.Phone,
			Designation:  a.Employee.Designation,
			LocationType: a.LocationType,
			LocationID:   a.LocationID,
			LocationName: locationName,
		})
	}

	return &dto.ContactDirectoryResponse{
		LocationType: ref.Kind,
		LocationID:   ref.WireID(),
		LocationName: locationName,
		Contacts:     contactResponses,
		Employees:    employees,
	}, nil
}

// ────────────────────── National ──────────────────────

func (s *contactService) National(ctx context.Context, state string) ([]dto.NationalContactResponse, error) {
	contacts, err := s.repo.NationalContact.ListForState(ctx, state)
	if err != nil {
		s.logger.Error("national contact list failed", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.NationalContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, dto.NewNationalContactResponse(&contacts[i]))
	}
	return responses, nil
}

// ────────────────────── helpers ──────────────────────

func (s *contactService) getContact(ctx context.Context, id uint) (*model.EmergencyContact, error) {
	contact, err := s.repo.EmergencyContact.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		s.logger.Error("contact lookup failed", zap.Error(err))
		return nil, err
	}
	return contact, nil
}

func (s *contactService) toResponse(ctx context.Context, id uint) (*dto.EmergencyContactResponse, error) {
	contact, err := s.getContact(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEmergencyContactResponse(contact)
	return &resp, nil
}
