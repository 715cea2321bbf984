package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// EntityListFilters narrows the entity list query.
type EntityListFilters struct {
	CompanyID   uint
	CompanyCode string
	ActiveOnly  bool
	Search      string
}

// EntityRepository is the business-unit data-access interface.
type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	GetByID(ctx context.Context, id uint) (*model.Entity, error)
	GetByCompanyAndCode(ctx context.Context, companyID uint, entityCode string) (*model.Entity, error)
	GetByCodes(ctx context.Context, companyCode, entityCode string) (*model.Entity, error)
	List(ctx context.Context, f *EntityListFilters, offset, limit int) ([]model.Entity, int64, error)
	Update(ctx context.Context, entity *model.Entity) error
	Delete(ctx context.Context, id uint) error
	BatchCountSites(ctx context.Context, entityIDs []uint) (map[uint]int64, error)
}

type entityRepo struct {
	db *gorm.DB
}

// NewEntityRepo creates the GORM EntityRepository.
func NewEntityRepo(db *gorm.DB) EntityRepository {
	return &entityRepo{db: db}
}

func (r *entityRepo) Create(ctx context.Context, entity *model.Entity) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *entityRepo) GetByID(ctx context.Context, id uint) (*model.Entity, error) {
	var entity model.Entity
	err := r.db.WithContext(ctx).
		Preload("Company").
		First(&entity, id).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepo) GetByCompanyAndCode(ctx context.Context, companyID uint, entityCode string) (*model.Entity, error) {
	var entity model.Entity
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND entity_code = ?", companyID, entityCode).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetByCodes resolves the public lookup pair: active entity of an active
// company, matched by codes.
func (r *entityRepo) GetByCodes(ctx context.Context, companyCode, entityCode string) (*model.Entity, error) {
	var entity model.Entity
	err := r.db.WithContext(ctx).
		Preload("Company").
		Joins("JOIN companies ON companies.id = entities.company_id").
		Where("companies.company_code = ? AND companies.is_active = ?", companyCode, true).
		Where("entities.entity_code = ? AND entities.is_active = ?", entityCode, true).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepo) List(ctx context.Context, f *EntityListFilters, offset, limit int) ([]model.Entity, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Entity{})
	if f != nil {
		if f.CompanyID != 0 {
			q = q.Where("entities.company_id = ?", f.CompanyID)
		}
		if f.CompanyCode != "" {
			q = q.Joins("JOIN companies ON companies.id = entities.company_id").
				Where("companies.company_code = ?", f.CompanyCode)
		}
		if f.ActiveOnly {
			q = q.Where("entities.is_active = ?", true)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("entities.name ILIKE ? OR entities.entity_code ILIKE ?", like, like)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []model.Entity
	err := q.Preload("Company").
		Order("entities.name ASC").
		Offset(offset).Limit(limit).
		Find(&entities).Error
	return entities, total, err
}

func (r *entityRepo) Update(ctx context.Context, entity *model.Entity) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *entityRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Entity{}, id).Error
}

func (r *entityRepo) BatchCountSites(ctx context.Context, entityIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(entityIDs))
	if len(entityIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EntityID uint
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Site{}).
		Select("entity_id, COUNT(*) AS count").
		Where("entity_id IN ?", entityIDs).
		Group("entity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EntityID] = row.Count
	}
	return counts, nil
}
