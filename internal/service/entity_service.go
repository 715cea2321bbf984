package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
)

// ── entity business errors ──

var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrEntityCodeExists  = errors.New("entity code already exists for this company")
	ErrEntityCompanyGone = errors.New("company not found or inactive")
)

// EntityService is the business-unit interface.
type EntityService interface {
	Create(ctx context.Context, req *dto.CreateEntityRequest) (*dto.EntityResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.EntityResponse, error)
	List(ctx context.Context, req *dto.EntityListRequest) ([]dto.EntityResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateEntityRequest) (*dto.EntityResponse, error)
	Delete(ctx context.Context, id uint) error
	ToggleStatus(ctx context.Context, id uint) (*dto.EntityResponse, error)
	QR(ctx context.Context, id uint) (*dto.QRResponse, error)
	// PublicLookup backs the QR landing page for entity codes.
	PublicLookup(ctx context.Context, companyCode, entityCode string) (*dto.PublicEntityResponse, error)
}

type entityService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEntityService creates an EntityService instance.
func NewEntityService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EntityService {
	return &entityService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *entityService) Create(ctx context.Context, req *dto.CreateEntityRequest) (*dto.EntityResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityCompanyGone
		}
		s.logger.Error("company lookup failed", zap.Error(err))
		return nil, err
	}
	if !company.IsActive {
		return nil, ErrEntityCompanyGone
	}

	existing, err := s.repo.Entity.GetByCompanyAndCode(ctx, req.CompanyID, req.EntityCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrEntityCodeExists
	}

	entity := &model.Entity{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		EntityCode:  req.EntityCode,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Phone:       req.Phone,
		Email:       req.Email,
		IsActive:    true,
	}
	if err := s.repo.Entity.Create(ctx, entity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEntityCodeExists
		}
		s.logger.Error("entity create failed", zap.Error(err))
		return nil, err
	}

	return s.toResponse(ctx, entity.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *entityService) GetByID(ctx context.Context, id uint) (*dto.EntityResponse, error) {
	return s.toResponse(ctx, id)
}

// ────────────────────── List ──────────────────────

func (s *entityService) List(ctx context.Context, req *dto.EntityListRequest) ([]dto.EntityResponse, int64, error) {
	filters := &repository.EntityListFilters{
		CompanyID:   req.CompanyID,
		CompanyCode: req.CompanyCode,
		ActiveOnly:  req.ActiveOnly,
		Search:      req.Search,
	}
	entities, total, err := s.repo.Entity.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("entity list failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]uint, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	siteCounts, err := s.repo.Entity.BatchCountSites(ctx, ids)
	if err != nil {
		s.logger.Error("site count failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EntityResponse, 0, len(entities))
	for i := range entities {
		responses = append(responses, dto.NewEntityResponse(&entities[i], siteCounts[entities[i].ID]))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *entityService) Update(ctx context.Context, id uint, req *dto.UpdateEntityRequest) (*dto.EntityResponse, error) {
	entity, err := s.repo.Entity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.Description != nil {
		entity.Description = *req.Description
	}
	if req.Address != nil {
		entity.Address = *req.Address
	}
	if req.City != nil {
		entity.City = *req.City
	}
	if req.State != nil {
		entity.State = *req.State
	}
	if req.PostalCode != nil {
		entity.PostalCode = *req.PostalCode
	}
	if req.Phone != nil {
		entity.Phone = *req.Phone
	}
	if req.Email != nil {
		entity.Email = *req.Email
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}

	if err := s.repo.Entity.Update(ctx, entity); err != nil {
		s.logger.Error("entity update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, entity.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *entityService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Entity.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntityNotFound
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return err
	}
	if err := s.repo.Entity.Delete(ctx, id); err != nil {
		s.logger.Error("entity delete failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ToggleStatus ──────────────────────

func (s *entityService) ToggleStatus(ctx context.Context, id uint) (*dto.EntityResponse, error) {
	entity, err := s.repo.Entity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}

	entity.IsActive = !entity.IsActive
	if err := s.repo.Entity.Update(ctx, entity); err != nil {
		s.logger.Error("entity update failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, entity.ID)
}

// ────────────────────── QR ──────────────────────

func (s *entityService) QR(ctx context.Context, id uint) (*dto.QRResponse, error) {
	entity, err := s.repo.Entity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}

	companyCode := ""
	if entity.Company != nil {
		companyCode = entity.Company.CompanyCode
	}
	publicURL := buildPublicURL(s.cfg.Server.PublicBaseURL, companyCode, entity.EntityCode)
	image, err := qrDataURL(publicURL)
	if err != nil {
		s.logger.Error("qr encode failed", zap.Error(err))
		return nil, err
	}

	return &dto.QRResponse{
		QRCode:    image,
		PublicURL: publicURL,
		Code:      entity.EntityCode,
		Name:      entity.Name,
	}, nil
}

// ────────────────────── PublicLookup ──────────────────────

func (s *entityService) PublicLookup(ctx context.Context, companyCode, entityCode string) (*dto.PublicEntityResponse, error) {
	entity, err := s.repo.Entity.GetByCodes(ctx, companyCode, entityCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error("public entity lookup failed", zap.Error(err))
		return nil, err
	}
	resp := dto.NewPublicEntityResponse(entity)
	return &resp, nil
}

// ────────────────────── helpers ──────────────────────

func (s *entityService) toResponse(ctx context.Context, id uint) (*dto.EntityResponse, error) {
	entity, err := s.repo.Entity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error("entity lookup failed", zap.Error(err))
		return nil, err
	}
	counts, err := s.repo.Entity.BatchCountSites(ctx, []uint{entity.ID})
	if err != nil {
		s.logger.Error("site count failed", zap.Error(err))
		return nil, err
	}
	resp := dto.NewEntityResponse(entity, counts[entity.ID])
	return &resp, nil
}
