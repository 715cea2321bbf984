package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// SiteListFilters narrows the site list query.
type SiteListFilters struct {
	EntityID        uint
	CompanyID       uint
	CompanyCode     string
	Status          string
	PlantType       string
	State           string
	ActiveOnly      bool
	OperationalOnly bool
	Search          string
	Ordering        string
}

// SiteRepository is the site data-access interface.
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id uint) (*model.Site, error)
	GetByEntityAndCode(ctx context.Context, entityID uint, siteCode string) (*model.Site, error)
	GetByCodes(ctx context.Context, companyCode, siteCode string) (*model.Site, error)
	List(ctx context.Context, f *SiteListFilters, offset, limit int) ([]model.Site, int64, error)
	Update(ctx context.Context, site *model.Site) error
	// Deactivate soft-deletes: the row survives with is_active=false.
	Deactivate(ctx context.Context, id uint) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountOperational(ctx context.Context) (int64, error)
	GroupCount(ctx context.Context, column string) (map[string]int64, error)
	Recent(ctx context.Context, limit int) ([]model.Site, error)
}

type siteRepo struct {
	db *gorm.DB
}

// NewSiteRepo creates the GORM SiteRepository.
func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *siteRepo) GetByID(ctx context.Context, id uint) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).
		Preload("Entity").
		Preload("Entity.Company").
		First(&site, id).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) GetByEntityAndCode(ctx context.Context, entityID uint, siteCode string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).
		Where("entity_id = ? AND site_code = ?", entityID, siteCode).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// GetByCodes resolves the public lookup pair: active site under an active
// company, matched by codes.
func (r *siteRepo) GetByCodes(ctx context.Context, companyCode, siteCode string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).
		Preload("Entity").
		Preload("Entity.Company").
		Joins("JOIN entities ON entities.id = sites.entity_id").
		Joins("JOIN companies ON companies.id = entities.company_id").
		Where("companies.company_code = ? AND companies.is_active = ?", companyCode, true).
		Where("sites.site_code = ? AND sites.is_active = ?", siteCode, true).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) List(ctx context.Context, f *SiteListFilters, offset, limit int) ([]model.Site, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Site{})
	ordering := "sites.name ASC"
	if f != nil {
		if f.EntityID != 0 {
			q = q.Where("sites.entity_id = ?", f.EntityID)
		}
		if f.CompanyID != 0 || f.CompanyCode != "" {
			q = q.Joins("JOIN entities ON entities.id = sites.entity_id").
				Joins("JOIN companies ON companies.id = entities.company_id")
			if f.CompanyID != 0 {
				q = q.Where("companies.id = ?", f.CompanyID)
			}
			if f.CompanyCode != "" {
				q = q.Where("companies.company_code = ?", f.CompanyCode)
			}
		}
		if f.Status != "" {
			q = q.Where("sites.operational_status = ?", f.Status)
		}
		if f.PlantType != "" {
			q = q.Where("sites.plant_type = ?", f.PlantType)
		}
		if f.State != "" {
			q = q.Where("sites.state = ?", f.State)
		}
		if f.ActiveOnly {
			q = q.Where("sites.is_active = ?", true)
		}
		if f.OperationalOnly {
			q = q.Where("sites.is_active = ? AND sites.operational_status = ?", true, model.SiteStatusOperational)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("sites.name ILIKE ? OR sites.site_code ILIKE ? OR sites.city ILIKE ?", like, like, like)
		}
		if f.Ordering != "" {
			ordering = orderingClause("sites", f.Ordering)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sites []model.Site
	err := q.Preload("Entity").
		Preload("Entity.Company").
		Order(ordering).
		Offset(offset).Limit(limit).
		Find(&sites).Error
	return sites, total, err
}

func (r *siteRepo) Update(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

func (r *siteRepo) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *siteRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Site{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

func (r *siteRepo) CountOperational(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("is_active = ? AND operational_status = ?", true, model.SiteStatusOperational).
		Count(&total).Error
	return total, err
}

func (r *siteRepo) GroupCount(ctx context.Context, column string) (map[string]int64, error) {
	return groupCount(r.db.WithContext(ctx).Model(&model.Site{}).Where("is_active = ?", true), column)
}

func (r *siteRepo) Recent(ctx context.Context, limit int) ([]model.Site, error) {
	var sites []model.Site
	err := r.db.WithContext(ctx).
		Preload("Entity").
		Preload("Entity.Company").
		Order("created_at DESC").
		Limit(limit).
		Find(&sites).Error
	return sites, err
}
