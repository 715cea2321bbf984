package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
)

// ── company business errors ──

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrCompanyCodeExists     = errors.New("company code already exists")
	ErrParentCompanyNotFound = errors.New("parent company not found")
	ErrParentCompanyRequired = errors.New("subsidiary companies require a parent company")
	ErrCompanySelfParent     = errors.New("company cannot be its own parent")
)

// CompanyService is the company business interface.
type CompanyService interface {
	Create(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.CompanyResponse, error)
	List(ctx context.Context, req *dto.CompanyListRequest) ([]dto.CompanyResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, id uint) error
	ToggleStatus(ctx context.Context, id uint) (*dto.CompanyResponse, error)
	Stats(ctx context.Context) (*dto.CompanyStatsResponse, error)
}

type companyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCompanyService creates a CompanyService instance.
func NewCompanyService(repo *repository.Repository, logger *zap.Logger) CompanyService {
	return &companyService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *companyService) Create(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	existing, err := s.repo.Company.GetByCode(ctx, req.CompanyCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("company lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrCompanyCodeExists
	}

	companyType := req.CompanyType
	if companyType == "" {
		companyType = model.CompanyTypeParent
	}
	if err := s.validateParent(ctx, companyType, req.ParentCompanyID, 0); err != nil {
		return nil, err
	}

	company := &model.Company{
		Name:            req.Name,
		CompanyCode:     req.CompanyCode,
		CompanyType:     companyType,
		ParentCompanyID: req.ParentCompanyID,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		CountryCode:     req.CountryCode,
		PostalCode:      req.PostalCode,
		Phone:           req.Phone,
		Email:           req.Email,
		Website:         req.Website,
		IsActive:        true,
	}
	if company.Country == "" {
		company.Country = "India"
	}
	if company.CountryCode == "" {
		company.CountryCode = "IND"
	}

	if err := s.repo.Company.Create(ctx, company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCompanyCodeExists
		}
		s.logger.Error("company create failed", zap.Error(err))
		return nil, err
	}

	return s.toResponse(ctx, company.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *companyService) GetByID(ctx context.Context, id uint) (*dto.CompanyResponse, error) {
	return s.toResponse(ctx, id)
}

// ────────────────────── List ──────────────────────

func (s *companyService) List(ctx context.Context, req *dto.CompanyListRequest) ([]dto.CompanyResponse, int64, error) {
	filters := &repository.CompanyListFilters{
		CompanyType: req.CompanyType,
		ActiveOnly:  req.ActiveOnly,
		Search:      req.Search,
		Ordering:    req.Ordering,
	}
	companies, total, err := s.repo.Company.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("company list failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]uint, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}
	entityCounts, err := s.repo.Company.BatchCountEntities(ctx, ids)
	if err != nil {
		s.logger.Error("entity count failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, dto.NewCompanyResponse(&companies[i], entityCounts[companies[i].ID]))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *companyService) Update(ctx context.Context, id uint, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("company lookup failed", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.CompanyType != nil {
		company.CompanyType = *req.CompanyType
	}
	if req.ParentCompanyID != nil {
		company.ParentCompanyID = req.ParentCompanyID
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.Country != nil {
		company.Country = *req.Country
	}
	if req.CountryCode != nil {
		company.CountryCode = *req.CountryCode
	}
	if req.PostalCode != nil {
		company.PostalCode = *req.PostalCode
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := s.validateParent(ctx, company.CompanyType, company.ParentCompanyID, company.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Company.Update(ctx, company); err != nil {
		s.logger.Error("company update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, company.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *companyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Company.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		s.logger.Error("company lookup failed", zap.Error(err))
		return err
	}
	if err := s.repo.Company.Delete(ctx, id); err != nil {
		s.logger.Error("company delete failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ToggleStatus ──────────────────────

func (s *companyService) ToggleStatus(ctx context.Context, id uint) (*dto.CompanyResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("company lookup failed", zap.Error(err))
		return nil, err
	}

	company.IsActive = !company.IsActive
	if err := s.repo.Company.Update(ctx, company); err != nil {
		s.logger.Error("company update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, company.ID)
}

// ────────────────────── Stats ──────────────────────

func (s *companyService) Stats(ctx context.Context) (*dto.CompanyStatsResponse, error) {
	total, err := s.repo.Company.Count(ctx, false)
	if err != nil {
		s.logger.Error("company count failed", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Company.Count(ctx, true)
	if err != nil {
		s.logger.Error("company count failed", zap.Error(err))
		return nil, err
	}
	byType, err := s.repo.Company.GroupCount(ctx, "company_type")
	if err != nil {
		s.logger.Error("company group count failed", zap.Error(err))
		return nil, err
	}
	byState, err := s.repo.Company.GroupCount(ctx, "state")
	if err != nil {
		s.logger.Error("company group count failed", zap.Error(err))
		return nil, err
	}

	return &dto.CompanyStatsResponse{
		TotalCompanies:  total,
		ActiveCompanies: active,
		ByType:          byType,
		ByState:         byState,
	}, nil
}

// ────────────────────── helpers ──────────────────────

// validateParent enforces the parent-company rules: subsidiaries must
// reference a parent, the reference must resolve, and a company can never
// parent itself.
func (s *companyService) validateParent(ctx context.Context, companyType string, parentID *uint, selfID uint) error {
	if companyType == model.CompanyTypeSubsidiary && parentID == nil {
		return ErrParentCompanyRequired
	}
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return ErrCompanySelfParent
	}
	if _, err := s.repo.Company.GetByID(ctx, *parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentCompanyNotFound
		}
		s.logger.Error("parent company lookup failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *companyService) toResponse(ctx context.Context, id uint) (*dto.CompanyResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("company lookup failed", zap.Error(err))
		return nil, err
	}
	entityCount, err := s.repo.Company.CountEntities(ctx, company.ID)
	if err != nil {
		s.logger.Error("entity count failed", zap.Error(err))
		return nil, err
	}
	resp := dto.NewCompanyResponse(company, entityCount)
	return &resp, nil
}
