package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// CompanyListFilters narrows the company list query.
type CompanyListFilters struct {
	CompanyType string
	ActiveOnly  bool
	Search      string
	Ordering    string
}

// CompanyRepository is the company data-access interface.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, id uint) (*model.Company, error)
	GetByCode(ctx context.Context, code string) (*model.Company, error)
	List(ctx context.Context, f *CompanyListFilters, offset, limit int) ([]model.Company, int64, error)
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountEntities(ctx context.Context, companyID uint) (int64, error)
	BatchCountEntities(ctx context.Context, companyIDs []uint) (map[uint]int64, error)
	GroupCount(ctx context.Context, column string) (map[string]int64, error)
	ListActiveWithEntityCounts(ctx context.Context) ([]model.Company, map[uint]int64, error)
}

type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo creates the GORM CompanyRepository.
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepo) GetByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Preload("ParentCompany").
		First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) GetByCode(ctx context.Context, code string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Preload("ParentCompany").
		Where("company_code = ?", code).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) List(ctx context.Context, f *CompanyListFilters, offset, limit int) ([]model.Company, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Company{})
	ordering := "companies.name ASC"
	if f != nil {
		if f.CompanyType != "" {
			q = q.Where("company_type = ?", f.CompanyType)
		}
		if f.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("name ILIKE ? OR company_code ILIKE ? OR city ILIKE ?", like, like, like)
		}
		if f.Ordering != "" {
			ordering = orderingClause("companies", f.Ordering)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []model.Company
	err := q.Preload("ParentCompany").
		Order(ordering).
		Offset(offset).Limit(limit).
		Find(&companies).Error
	return companies, total, err
}

func (r *companyRepo) Update(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *companyRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Company{}, id).Error
}

func (r *companyRepo) CountEntities(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Entity{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *companyRepo) BatchCountEntities(ctx context.Context, companyIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(companyIDs))
	if len(companyIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CompanyID uint
		Count     int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Entity{}).
		Select("company_id, COUNT(*) AS count").
		Where("company_id IN ?", companyIDs).
		Group("company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CompanyID] = row.Count
	}
	return counts, nil
}

func (r *companyRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Company{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

func (r *companyRepo) GroupCount(ctx context.Context, column string) (map[string]int64, error) {
	return groupCount(r.db.WithContext(ctx).Model(&model.Company{}), column)
}

func (r *companyRepo) ListActiveWithEntityCounts(ctx context.Context) ([]model.Company, map[uint]int64, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}
	counts, err := r.BatchCountEntities(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return companies, counts, nil
}
