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

// ── employee business errors ──

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeCodeExists     = errors.New("employee code already exists")
	ErrEmployeeEmailExists    = errors.New("employee email already exists")
	ErrAssignmentNotFound     = errors.New("location assignment not found")
	ErrAssignmentExists       = errors.New("employee already assigned to this location")
	ErrAssignmentLocationGone = errors.New("referenced location not found or inactive")
	ErrInvalidLocationRef     = errors.New("invalid location reference")
)

// EmployeeService is the personnel-directory business interface. It also
// owns location assignments and the emergency-contact directory query.
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error
	ToggleStatus(ctx context.Context, id uint) (*dto.EmployeeResponse, error)
	Stats(ctx context.Context) (*dto.EmployeeStatsResponse, error)
	// EmergencyContacts resolves the directory for one exact location
	// reference: active employees, active assignments, flagged for
	// display.
	EmergencyContacts(ctx context.Context, locationType, locationID string) ([]dto.EmergencyContactEmployee, error)

	AssignLocation(ctx context.Context, req *dto.CreateEmployeeLocationRequest) (*dto.EmployeeLocationResponse, error)
	GetAssignment(ctx context.Context, id uint) (*dto.EmployeeLocationResponse, error)
	ListAssignments(ctx context.Context, req *dto.EmployeeLocationListRequest) ([]dto.EmployeeLocationResponse, int64, error)
	UpdateAssignment(ctx context.Context, id uint, req *dto.UpdateEmployeeLocationRequest) (*dto.EmployeeLocationResponse, error)
	RemoveAssignment(ctx context.Context, id uint) error
}

type employeeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService creates an EmployeeService instance.
func NewEmployeeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if existing, err := s.repo.Employee.GetByCode(ctx, req.EmployeeCode); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("employee lookup failed", zap.Error(err))
		return nil, err
	} else if existing != nil {
		return nil, ErrEmployeeCodeExists
	}
	if existing, err := s.repo.Employee.GetByEmail(ctx, req.Email); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("employee lookup failed", zap.Error(err))
		return nil, err
	} else if existing != nil {
		return nil, ErrEmployeeEmailExists
	}

	employee := &model.Employee{
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Designation:  req.Designation,
		Department:   req.Department,
		IsActive:     true,
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmployeeCodeExists
		}
		s.logger.Error("employee create failed", zap.Error(err))
		return nil, err
	}

	resp := dto.NewEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id uint) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewEmployeeResponse(employee)
	assignments, err := s.repo.EmployeeLocation.ListByEmployee(ctx, id, false)
	if err != nil {
		s.logger.Error("assignment list failed", zap.Error(err))
		return nil, err
	}
	for i := range assignments {
		assignments[i].Employee = employee
		resp.Locations = append(resp.Locations, s.toAssignmentResponse(ctx, &assignments[i]))
	}
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	filters := &repository.EmployeeListFilters{
		Department: req.Department,
		ActiveOnly: req.ActiveOnly,
		Search:     req.Search,
	}
	employees, total, err := s.repo.Employee.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("employee list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, dto.NewEmployeeResponse(&employees[i]))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != employee.Email {
		existing, err := s.repo.Employee.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("employee lookup failed", zap.Error(err))
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmployeeEmailExists
		}
		employee.Email = *req.Email
	}
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Designation != nil {
		employee.Designation = *req.Designation
	}
	if req.Department != nil {
		employee.Department = *req.Department
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("employee update failed", zap.Error(err))
		return nil, err
	}
	resp := dto.NewEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Employee.Delete(ctx, id); err != nil {
		s.logger.Error("employee delete failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ToggleStatus ──────────────────────

func (s *employeeService) ToggleStatus(ctx context.Context, id uint) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.IsActive = !employee.IsActive
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("employee update failed", zap.Error(err))
		return nil, err
	}
	resp := dto.NewEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Stats ──────────────────────

func (s *employeeService) Stats(ctx context.Context) (*dto.EmployeeStatsResponse, error) {
	total, err := s.repo.Employee.Count(ctx, false)
	if err != nil {
		s.logger.Error("employee count failed", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Employee.Count(ctx, true)
	if err != nil {
		s.logger.Error("employee count failed", zap.Error(err))
		return nil, err
	}
	flagged, err := s.repo.EmployeeLocation.CountEmergencyFlagged(ctx)
	if err != nil {
		s.logger.Error("assignment count failed", zap.Error(err))
		return nil, err
	}
	byDepartment, err := s.repo.Employee.GroupCount(ctx, "department")
	if err != nil {
		s.logger.Error("employee group count failed", zap.Error(err))
		return nil, err
	}

	return &dto.EmployeeStatsResponse{
		TotalEmployees:    total,
		ActiveEmployees:   active,
		EmergencyContacts: flagged,
		ByDepartment:      byDepartment,
	}, nil
}

// ────────────────────── EmergencyContacts ──────────────────────

func (s *employeeService) EmergencyContacts(ctx context.Context, locationType, locationID string) ([]dto.EmergencyContactEmployee, error) {
	ref, err := model.ParseLocationRef(locationType, locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocationRef, err)
	}

	assignments, err := s.repo.EmployeeLocation.ListEmergencyForLocation(ctx, ref.Kind, ref.WireID())
	if err != nil {
		s.logger.Error("emergency contact query failed", zap.Error(err))
		return nil, err
	}

	locationName := resolveLocationName(ctx, s.repo, s.cfg.Organization.Name, ref)
	entries := make([]dto.EmergencyContactEmployee, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if a.Employee == nil {
			continue
		}
		entries = append(entries, dto.EmergencyContactEmployee{
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
	return entries, nil
}

// ────────────────────── AssignLocation ──────────────────────

func (s *employeeService) AssignLocation(ctx context.Context, req *dto.CreateEmployeeLocationRequest) (*dto.EmployeeLocationResponse, error) {
	ref, err := model.ParseLocationRef(req.LocationType, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocationRef, err)
	}

	employee, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLocationExists(ctx, ref); err != nil {
		return nil, err
	}

	// Wire values are stored normalized ("007" becomes "7"), so the
	// uniqueness check and the unique index see one canonical form.
	existing, err := s.repo.EmployeeLocation.GetByEmployeeAndRef(ctx, req.EmployeeID, ref.Kind, ref.WireID())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("assignment lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrAssignmentExists
	}

	assignment := &model.EmployeeLocation{
		EmployeeID:              req.EmployeeID,
		LocationType:            ref.Kind,
		LocationID:              ref.WireID(),
		IsPrimary:               req.IsPrimary,
		ShowInEmergencyContacts: req.ShowInEmergencyContacts,
		IsActive:                true,
	}
	if err := s.repo.EmployeeLocation.Create(ctx, assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAssignmentExists
		}
		s.logger.Error("assignment create failed", zap.Error(err))
		return nil, err
	}

	assignment.Employee = employee
	resp := s.toAssignmentResponse(ctx, assignment)
	return &resp, nil
}

// ────────────────────── GetAssignment ──────────────────────

func (s *employeeService) GetAssignment(ctx context.Context, id uint) (*dto.EmployeeLocationResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toAssignmentResponse(ctx, assignment)
	return &resp, nil
}

// ────────────────────── ListAssignments ──────────────────────

func (s *employeeService) ListAssignments(ctx context.Context, req *dto.EmployeeLocationListRequest) ([]dto.EmployeeLocationResponse, int64, error) {
	filters := &repository.EmployeeLocationListFilters{
		EmployeeID:   req.EmployeeID,
		LocationType: req.LocationType,
		LocationID:   req.LocationID,
		ActiveOnly:   req.ActiveOnly,
	}
	assignments, total, err := s.repo.EmployeeLocation.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("assignment list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EmployeeLocationResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, s.toAssignmentResponse(ctx, &assignments[i]))
	}
	return responses, total, nil
}

// ────────────────────── UpdateAssignment ──────────────────────

func (s *employeeService) UpdateAssignment(ctx context.Context, id uint, req *dto.UpdateEmployeeLocationRequest) (*dto.EmployeeLocationResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsPrimary != nil {
		assignment.IsPrimary = *req.IsPrimary
	}
	if req.ShowInEmergencyContacts != nil {
		assignment.ShowInEmergencyContacts = *req.ShowInEmergencyContacts
	}
	if req.IsActive != nil {
		assignment.IsActive = *req.IsActive
	}

	if err := s.repo.EmployeeLocation.Update(ctx, assignment); err != nil {
		s.logger.Error("assignment update failed", zap.Error(err))
		return nil, err
	}
	resp := s.toAssignmentResponse(ctx, assignment)
	return &resp, nil
}

// ────────────────────── RemoveAssignment ──────────────────────

func (s *employeeService) RemoveAssignment(ctx context.Context, id uint) error {
	if _, err := s.getAssignment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.EmployeeLocation.Delete(ctx, id); err != nil {
		s.logger.Error("assignment delete failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── helpers ──────────────────────

func (s *employeeService) getEmployee(ctx context.Context, id uint) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", zap.Error(err))
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) getAssignment(ctx context.Context, id uint) (*model.EmployeeLocation, error) {
	assignment, err := s.repo.EmployeeLocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("assignment lookup failed", zap.Error(err))
		return nil, err
	}
	return assignment, nil
}

// checkLocationExists enforces strict references: entity and site
// assignments must point at an existing, active row. Organization-level
// references have nothing to resolve.
func (s *employeeService) checkLocationExists(ctx context.Context, ref model.LocationRef) error {
	switch ref.Kind {
	case model.LocationEntity:
		entity, err := s.repo.Entity.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentLocationGone
			}
			s.logger.Error("entity lookup failed", zap.Error(err))
			return err
		}
		if !entity.IsActive {
			return ErrAssignmentLocationGone
		}
	case model.LocationSite:
		site, err := s.repo.Site.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentLocationGone
			}
			s.logger.Error("site lookup failed", zap.Error(err))
			return err
		}
		if !site.IsActive {
			return ErrAssignmentLocationGone
		}
	}
	return nil
}

func (s *employeeService) toAssignmentResponse(ctx context.Context, a *model.EmployeeLocation) dto.EmployeeLocationResponse {
	resp := dto.EmployeeLocationResponse{
		ID:                      a.ID,
		EmployeeID:              a.EmployeeID,
		LocationType:            a.LocationType,
		LocationID:              a.LocationID,
		IsPrimary:               a.IsPrimary,
		ShowInEmergencyContacts: a.ShowInEmergencyContacts,
		IsActive:                a.IsActive,
		CreatedAt:               dto.FormatTime(a.CreatedAt),
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName()
	}
	if ref, err := a.Ref(); err == nil {
		resp.LocationName = resolveLocationName(ctx, s.repo, s.cfg.Organization.Name, ref)
	} else {
		resp.LocationName = "Unknown Location"
	}
	return resp
}

// resolveLocationName renders the display label for a location reference.
// Dangling entity/site references resolve to an explicit unknown label
// instead of failing the whole response.
func resolveLocationName(ctx context.Context, repo *repository.Repository, orgName string, ref model.LocationRef) string {
	switch ref.Kind {
	case model.LocationHeadquarters:
		return orgName + " Headquarters"
	case model.LocationCompany:
		return orgName + " Company"
	case model.LocationEntity:
		entity, err := repo.Entity.GetByID(ctx, ref.ID)
		if err != nil {
			return "Unknown Entity"
		}
		return entity.Name + " (Entity)"
	case model.LocationSite:
		site, err := repo.Site.GetByID(ctx, ref.ID)
		if err != nil {
			return "Unknown Site"
		}
		return site.Name + " (Site)"
	}
	return ref.String()
}
