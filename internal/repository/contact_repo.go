package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// EmergencyContactListFilters narrows the contact list query.
type EmergencyContactListFilters struct {
	SiteID        uint
	CompanyID     uint
	ContactType   string
	ActiveOnly    bool
	AvailableOnly bool
}

// EmergencyContactRepository is the emergency-contact data-access
// interface.
type EmergencyContactRepository interface {
	Create(ctx context.Context, contact *model.EmergencyContact) error
	GetByID(ctx context.Context, id uint) (*model.EmergencyContact, error)
	GetBySiteTypeName(ctx context.Context, siteID *uint, contactType, name string) (*model.EmergencyContact, error)
	List(ctx context.Context, f *EmergencyContactListFilters, offset, limit int) ([]model.EmergencyContact, int64, error)
	ListForSite(ctx context.Context, siteID uint) ([]model.EmergencyContact, error)
	// ListCompanyLevel returns the active contacts attached at company
	// level, the rows with no site reference.
	ListCompanyLevel(ctx context.Context) ([]model.EmergencyContact, error)
	Update(ctx context.Context, contact *model.EmergencyContact) error
	Delete(ctx context.Context, id uint) error
}

// NationalContactRepository is the national-helpline data-access
// interface.
type NationalContactRepository interface {
	Create(ctx context.Context, contact *model.NationalEmergencyContact) error
	GetByID(ctx context.Context, id uint) (*model.NationalEmergencyContact, error)
	// ListForState returns state-specific rows plus nationwide rows
	// (blank state). A blank state argument returns nationwide only.
	ListForState(ctx context.Context, state string) ([]model.NationalEmergencyContact, error)
	Update(ctx context.Context, contact *model.NationalEmergencyContact) error
	Delete(ctx context.Context, id uint) error
}

// ── EmergencyContact Repository implementation ──

type emergencyContactRepo struct {
	db *gorm.DB
}

// NewEmergencyContactRepo creates the GORM EmergencyContactRepository.
func NewEmergencyContactRepo(db *gorm.DB) EmergencyContactRepository {
	return &emergencyContactRepo{db: db}
}

func (r *emergencyContactRepo) Create(ctx context.Context, contact *model.EmergencyContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *emergencyContactRepo) GetByID(ctx context.Context, id uint) (*model.EmergencyContact, error) {
	var contact model.EmergencyContact
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Company").
		First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetBySiteTypeName looks up the uniqueness triple. A nil siteID matches
// company-wide contacts (site_id IS NULL).
func (r *emergencyContactRepo) GetBySiteTypeName(ctx context.Context, siteID *uint, contactType, name string) (*model.EmergencyContact, error) {
	q := r.db.WithContext(ctx).
		Where("contact_type = ? AND name = ?", contactType, name)
	if siteID == nil {
		q = q.Where("site_id IS NULL")
	} else {
		q = q.Where("site_id = ?", *siteID)
	}
	var contact model.EmergencyContact
	if err := q.First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *emergencyContactRepo) List(ctx context.Context, f *EmergencyContactListFilters, offset, limit int) ([]model.EmergencyContact, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EmergencyContact{})
	if f != nil {
		if f.SiteID != 0 {
			q = q.Where("site_id = ?", f.SiteID)
		}
		if f.CompanyID != 0 {
			q = q.Where("company_id = ?", f.CompanyID)
		}
		if f.ContactType != "" {
			q = q.Where("contact_type = ?", f.ContactType)
		}
		if f.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
		if f.AvailableOnly {
			q = q.Where("is_24x7_available = ?", true)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []model.EmergencyContact
	err := q.Preload("Site").
		Preload("Company").
		Order("priority_order ASC, name ASC").
		Offset(offset).Limit(limit).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *emergencyContactRepo) ListForSite(ctx context.Context, siteID uint) ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	err := r.db.WithContext(ctx).
		Preload("Site").
		Where("site_id = ? AND is_active = ?", siteID, true).
		Order("priority_order ASC, name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *emergencyContactRepo) ListCompanyLevel(ctx context.Context) ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("site_id IS NULL AND is_active = ?", true).
		Order("priority_order ASC, name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *emergencyContactRepo) Update(ctx context.Context, contact *model.EmergencyContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *emergencyContactRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.EmergencyContact{}, id).Error
}

// ── NationalContact Repository implementation ──

type nationalContactRepo struct {
	db *gorm.DB
}

// NewNationalContactRepo creates the GORM NationalContactRepository.
func NewNationalContactRepo(db *gorm.DB) NationalContactRepository {
	return &nationalContactRepo{db: db}
}

func (r *nationalContactRepo) Create(ctx context.Context, contact *model.NationalEmergencyContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *nationalContactRepo) GetByID(ctx context.Context, id uint) (*model.NationalEmergencyContact, error) {
	var contact model.NationalEmergencyContact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *nationalContactRepo) ListForState(ctx context.Context, state string) ([]model.NationalEmergencyContact, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if state == "" {
		q = q.Where("state = ''")
	} else {
		q = q.Where("state = '' OR state = ?", state)
	}
	var contacts []model.NationalEmergencyContact
	err := q.Order("contact_type ASC, name ASC").Find(&contacts).Error
	return contacts, err
}

func (r *nationalContactRepo) Update(ctx context.Context, contact *model.NationalEmergencyContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *nationalContactRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.NationalEmergencyContact{}, id).Error
}
