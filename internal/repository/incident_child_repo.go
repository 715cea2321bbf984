package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// NotificationListFilters narrows the global notification log query.
type NotificationListFilters struct {
	IncidentID uint
	Status     string
}

// IncidentResponseRepository is the incident-response data-access
// interface.
type IncidentResponseRepository interface {
	Create(ctx context.Context, response *model.IncidentResponse) error
	GetByID(ctx context.Context, id uint) (*model.IncidentResponse, error)
	ListByIncident(ctx context.Context, incidentID uint, visibleOnly bool) ([]model.IncidentResponse, error)
	Delete(ctx context.Context, id uint) error
}

// IncidentAttachmentRepository is the attachment data-access interface.
type IncidentAttachmentRepository interface {
	Create(ctx context.Context, attachment *model.IncidentAttachment) error
	GetByID(ctx context.Context, id uint) (*model.IncidentAttachment, error)
	ListByIncident(ctx context.Context, incidentID uint) ([]model.IncidentAttachment, error)
	Delete(ctx context.Context, id uint) error
}

// IncidentNotificationRepository is the notification-record data-access
// interface.
type IncidentNotificationRepository interface {
	Create(ctx context.Context, notification *model.IncidentNotification) error
	GetByID(ctx context.Context, id uint) (*model.IncidentNotification, error)
	ListByIncident(ctx context.Context, incidentID uint) ([]model.IncidentNotification, error)
	List(ctx context.Context, f *NotificationListFilters, offset, limit int) ([]model.IncidentNotification, int64, error)
	Update(ctx context.Context, notification *model.IncidentNotification) error
}

// ── IncidentResponse Repository implementation ──

type incidentResponseRepo struct {
	db *gorm.DB
}

// NewIncidentResponseRepo creates the GORM IncidentResponseRepository.
func NewIncidentResponseRepo(db *gorm.DB) IncidentResponseRepository {
	return &incidentResponseRepo{db: db}
}

func (r *incidentResponseRepo) Create(ctx context.Context, response *model.IncidentResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *incidentResponseRepo) GetByID(ctx context.Context, id uint) (*model.IncidentResponse, error) {
	var response model.IncidentResponse
	if err := r.db.WithContext(ctx).First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *incidentResponseRepo) ListByIncident(ctx context.Context, incidentID uint, visibleOnly bool) ([]model.IncidentResponse, error) {
	q := r.db.WithContext(ctx).Where("incident_id = ?", incidentID)
	if visibleOnly {
		q = q.Where("is_visible_to_reporter = ?", true)
	}
	var responses []model.IncidentResponse
	err := q.Order("created_at ASC").Find(&responses).Error
	return responses, err
}

func (r *incidentResponseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.IncidentResponse{}, id).Error
}

// ── IncidentAttachment Repository implementation ──

type incidentAttachmentRepo struct {
	db *gorm.DB
}

// NewIncidentAttachmentRepo creates the GORM IncidentAttachmentRepository.
func NewIncidentAttachmentRepo(db *gorm.DB) IncidentAttachmentRepository {
	return &incidentAttachmentRepo{db: db}
}

func (r *incidentAttachmentRepo) Create(ctx context.Context, attachment *model.IncidentAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *incidentAttachmentRepo) GetByID(ctx context.Context, id uint) (*model.IncidentAttachment, error) {
	var attachment model.IncidentAttachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *incidentAttachmentRepo) ListByIncident(ctx context.Context, incidentID uint) ([]model.IncidentAttachment, error) {
	var attachments []model.IncidentAttachment
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *incidentAttachmentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.IncidentAttachment{}, id).Error
}

// ── IncidentNotification Repository implementation ──

type incidentNotificationRepo struct {
	db *gorm.DB
}

// NewIncidentNotificationRepo creates the GORM
// IncidentNotificationRepository.
func NewIncidentNotificationRepo(db *gorm.DB) IncidentNotificationRepository {
	return &incidentNotificationRepo{db: db}
}

func (r *incidentNotificationRepo) Create(ctx context.Context, notification *model.IncidentNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *incidentNotificationRepo) GetByID(ctx context.Context, id uint) (*model.IncidentNotification, error) {
	var notification model.IncidentNotification
	err := r.db.WithContext(ctx).
		Preload("Incident").
		First(&notification, id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *incidentNotificationRepo) ListByIncident(ctx context.Context, incidentID uint) ([]model.IncidentNotification, error) {
	var notifications []model.IncidentNotification
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *incidentNotificationRepo) List(ctx context.Context, f *NotificationListFilters, offset, limit int) ([]model.IncidentNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.IncidentNotification{})
	if f != nil {
		if f.IncidentID != 0 {
			q = q.Where("incident_id = ?", f.IncidentID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.IncidentNotification
	err := q.Preload("Incident").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *incidentNotificationRepo) Update(ctx context.Context, notification *model.IncidentNotification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}
