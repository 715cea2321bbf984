package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// overduePredicate is the SQL form of model.Incident.IsOverdue, so list
// filters and dashboard counts paginate on the same boundary the model
// computes. age_in_days > allowance (whole days) is equivalent to
// created_at <= now() - (allowance + 1) days.
const overduePredicate = `incidents.status NOT IN ('RESOLVED', 'CLOSED') AND incidents.created_at <= NOW() - ((CASE incidents.criticality ` +
	`WHEN 'EMERGENCY' THEN 0 ` +
	`WHEN 'CRITICAL' THEN 1 ` +
	`WHEN 'HIGH' THEN 3 ` +
	`WHEN 'MEDIUM' THEN 7 ` +
	`WHEN 'LOW' THEN 30 ` +
	`ELSE 30 END + 1) * INTERVAL '1 day')`

// IncidentListFilters narrows the incident list query. HeadquartersOnly
// selects site-less incidents; it wins over SiteID.
type IncidentListFilters struct {
	SiteID           uint
	HeadquartersOnly bool
	IncidentType     string
	Criticality      string
	Status           string
	IsOverdue        *bool
	IsAnonymous      *bool
	DateFrom         *time.Time
	DateTo           *time.Time
	Search           string
	Ordering         string
}

// IncidentStatsFilters scopes the dashboard aggregation.
type IncidentStatsFilters struct {
	Since            time.Time
	SiteID           uint
	HeadquartersOnly bool
	CompanyID        uint
}

// IncidentStatusCounts are the dashboard headline numbers.
type IncidentStatusCounts struct {
	Total    int64
	Open     int64
	Resolved int64
	Critical int64
	Overdue  int64
}

// SiteIncidentRow is one row of the per-site incident breakdown.
type SiteIncidentRow struct {
	SiteID   uint
	SiteName string
	SiteCode string
	Count    int64
}

// IncidentRepository is the incident data-access interface. Create and
// Update surface gorm.ErrDuplicatedKey when the incident_number unique
// index rejects the row.
type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) error
	GetByID(ctx context.Context, id uint) (*model.Incident, error)
	GetByIncidentID(ctx context.Context, incidentID string) (*model.Incident, error)
	List(ctx context.Context, f *IncidentListFilters, offset, limit int) ([]model.Incident, int64, error)
	ListAll(ctx context.Context, f *IncidentListFilters) ([]model.Incident, error)
	Update(ctx context.Context, incident *model.Incident) error
	Delete(ctx context.Context, id uint) error
	StatusCounts(ctx context.Context, f *IncidentStatsFilters) (*IncidentStatusCounts, error)
	GroupCounts(ctx context.Context, f *IncidentStatsFilters, column string) (map[string]int64, error)
	CountBySite(ctx context.Context, f *IncidentStatsFilters, limit int) ([]SiteIncidentRow, error)
	Recent(ctx context.Context, f *IncidentStatsFilters, limit int) ([]model.Incident, error)
}

type incidentRepo struct {
	db *gorm.DB
}

// NewIncidentRepo creates the GORM IncidentRepository.
func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, incident *model.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *incidentRepo) GetByID(ctx context.Context, id uint) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).
		Preload("Site").
		First(&incident, id).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) GetByIncidentID(ctx context.Context, incidentID string) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).
		Preload("Site").
		Where("incident_id = ?", incidentID).
		First(&incident).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// listScope builds a fresh query for the list filters. Each finalizer
// call gets its own scope so conditions never accumulate across calls.
func (r *incidentRepo) listScope(ctx context.Context, f *IncidentListFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Incident{})
	if f == nil {
		return q
	}
	if f.HeadquartersOnly {
		q = q.Where("incidents.site_id IS NULL")
	} else if f.SiteID != 0 {
		q = q.Where("incidents.site_id = ?", f.SiteID)
	}
	if f.IncidentType != "" {
		q = q.Where("incidents.incident_type = ?", f.IncidentType)
	}
	if f.Criticality != "" {
		q = q.Where("incidents.criticality = ?", f.Criticality)
	}
	if f.Status != "" {
		q = q.Where("incidents.status = ?", f.Status)
	}
	if f.IsOverdue != nil {
		if *f.IsOverdue {
			q = q.Where(overduePredicate)
		} else {
			q = q.Where("NOT (" + overduePredicate + ")")
		}
	}
	if f.IsAnonymous != nil {
		q = q.Where("incidents.is_anonymous = ?", *f.IsAnonymous)
	}
	if f.DateFrom != nil {
		q = q.Where("incidents.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("incidents.created_at < ?", *f.DateTo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("incidents.incident_number ILIKE ? OR incidents.title ILIKE ? OR incidents.description ILIKE ?",
			like, like, like)
	}
	return q
}

func (r *incidentRepo) List(ctx context.Context, f *IncidentListFilters, offset, limit int) ([]model.Incident, int64, error) {
	var total int64
	if err := r.listScope(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering := "incidents.created_at DESC"
	if f != nil && f.Ordering != "" {
		ordering = orderingClause("incidents", f.Ordering)
	}

	var incidents []model.Incident
	err := r.listScope(ctx, f).
		Preload("Site").
		Order(ordering).
		Offset(offset).Limit(limit).
		Find(&incidents).Error
	return incidents, total, err
}

// ListAll fetches every match without pagination, for exports.
func (r *incidentRepo) ListAll(ctx context.Context, f *IncidentListFilters) ([]model.Incident, error) {
	ordering := "incidents.created_at DESC"
	if f != nil && f.Ordering != "" {
		ordering = orderingClause("incidents", f.Ordering)
	}

	var incidents []model.Incident
	err := r.listScope(ctx, f).
		Preload("Site").
		Order(ordering).
		Find(&incidents).Error
	return incidents, err
}

func (r *incidentRepo) Update(ctx context.Context, incident *model.Incident) error {
	return r.db.WithContext(ctx).Save(incident).Error
}

func (r *incidentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Incident{}, id).Error
}

func (r *incidentRepo) statsScope(ctx context.Context, f *IncidentStatsFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Incident{})
	if f == nil {
		return q
	}
	if !f.Since.IsZero() {
		q = q.Where("incidents.created_at >= ?", f.Since)
	}
	if f.HeadquartersOnly {
		q = q.Where("incidents.site_id IS NULL")
	} else if f.SiteID != 0 {
		q = q.Where("incidents.site_id = ?", f.SiteID)
	}
	if f.CompanyID != 0 {
		q = q.Joins("JOIN sites ON sites.id = incidents.site_id").
			Joins("JOIN entities ON entities.id = sites.entity_id").
			Where("entities.company_id = ?", f.CompanyID)
	}
	return q
}

func (r *incidentRepo) StatusCounts(ctx context.Context, f *IncidentStatsFilters) (*IncidentStatusCounts, error) {
	counts := &IncidentStatusCounts{}
	if err := r.statsScope(ctx, f).Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	openExcluded := []string{model.StatusResolved, model.StatusClosed, model.StatusCancelled}
	if err := r.statsScope(ctx, f).Where("incidents.status NOT IN ?", openExcluded).Count(&counts.Open).Error; err != nil {
		return nil, err
	}
	if err := r.statsScope(ctx, f).Where("incidents.status = ?", model.StatusResolved).Count(&counts.Resolved).Error; err != nil {
		return nil, err
	}
	if err := r.statsScope(ctx, f).Where("incidents.criticality = ?", model.CriticalityCritical).Count(&counts.Critical).Error; err != nil {
		return nil, err
	}
	if err := r.statsScope(ctx, f).Where(overduePredicate).Count(&counts.Overdue).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *incidentRepo) GroupCounts(ctx context.Context, f *IncidentStatsFilters, column string) (map[string]int64, error) {
	return groupCount(r.statsScope(ctx, f), "incidents."+column)
}

func (r *incidentRepo) CountBySite(ctx context.Context, f *IncidentStatsFilters, limit int) ([]SiteIncidentRow, error) {
	q := r.statsScope(ctx, f)
	if f == nil || f.CompanyID == 0 {
		q = q.Joins("JOIN sites ON sites.id = incidents.site_id")
	}
	var rows []SiteIncidentRow
	err := q.Select("incidents.site_id AS site_id, sites.name AS site_name, sites.site_code AS site_code, COUNT(*) AS count").
		Group("incidents.site_id, sites.name, sites.site_code").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *incidentRepo) Recent(ctx context.Context, f *IncidentStatsFilters, limit int) ([]model.Incident, error) {
	var incidents []model.Incident
	err := r.statsScope(ctx, f).
		Preload("Site").
		Order("incidents.created_at DESC").
		Limit(limit).
		Find(&incidents).Error
	return incidents, err
}
