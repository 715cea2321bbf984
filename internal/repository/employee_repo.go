package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// EmployeeListFilters narrows the employee list query.
type EmployeeListFilters struct {
	Department string
	ActiveOnly bool
	Search     string
}

// EmployeeLocationListFilters narrows the assignment list query.
type EmployeeLocationListFilters struct {
	EmployeeID   uint
	LocationType string
	LocationID   string
	ActiveOnly   bool
}

// EmployeeRepository is the employee data-access interface.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uint) (*model.Employee, error)
	GetByCode(ctx context.Context, employeeCode string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, f *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	GroupCount(ctx context.Context, column string) (map[string]int64, error)
}

// EmployeeLocationRepository is the location-assignment data-access
// interface.
type EmployeeLocationRepository interface {
	Create(ctx context.Context, assignment *model.EmployeeLocation) error
	GetByID(ctx context.Context, id uint) (*model.EmployeeLocation, error)
	GetByEmployeeAndRef(ctx context.Context, employeeID uint, locationType, locationID string) (*model.EmployeeLocation, error)
	ListByEmployee(ctx context.Context, employeeID uint, activeOnly bool) ([]model.EmployeeLocation, error)
	List(ctx context.Context, f *EmployeeLocationListFilters, offset, limit int) ([]model.EmployeeLocation, int64, error)
	Update(ctx context.Context, assignment *model.EmployeeLocation) error
	Delete(ctx context.Context, id uint) error
	// ListEmergencyForLocation returns active assignments at the exact
	// location pair whose employee is active and flagged for emergency
	// contact display.
	ListEmergencyForLocation(ctx context.Context, locationType, locationID string) ([]model.EmployeeLocation, error)
	CountEmergencyFlagged(ctx context.Context) (int64, error)
}

// ── Employee Repository implementation ──

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo creates the GORM EmployeeRepository.
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByCode(ctx context.Context, employeeCode string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_code = ?", employeeCode).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, f *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{})
	if f != nil {
		if f.Department != "" {
			q = q.Where("department = ?", f.Department)
		}
		if f.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ? OR email ILIKE ?",
				like, like, like, like)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []model.Employee
	err := q.Order("first_name ASC, last_name ASC").
		Offset(offset).Limit(limit).
		Find(&employees).Error
	return employees, total, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Employee{}, id).Error
}

func (r *employeeRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

func (r *employeeRepo) GroupCount(ctx context.Context, column string) (map[string]int64, error) {
	return groupCount(r.db.WithContext(ctx).Model(&model.Employee{}).Where("is_active = ?", true), column)
}

// ── EmployeeLocation Repository implementation ──

type employeeLocationRepo struct {
	db *gorm.DB
}

// NewEmployeeLocationRepo creates the GORM EmployeeLocationRepository.
func NewEmployeeLocationRepo(db *gorm.DB) EmployeeLocationRepository {
	return &employeeLocationRepo{db: db}
}

func (r *employeeLocationRepo) Create(ctx context.Context, assignment *model.EmployeeLocation) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *employeeLocationRepo) GetByID(ctx context.Context, id uint) (*model.EmployeeLocation, error) {
	var assignment model.EmployeeLocation
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *employeeLocationRepo) GetByEmployeeAndRef(ctx context.Context, employeeID uint, locationType, locationID string) (*model.EmployeeLocation, error) {
	var assignment model.EmployeeLocation
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND location_type = ? AND location_id = ?", employeeID, locationType, locationID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *employeeLocationRepo) ListByEmployee(ctx context.Context, employeeID uint, activeOnly bool) ([]model.EmployeeLocation, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var assignments []model.EmployeeLocation
	err := q.Order("is_primary DESC, id ASC").Find(&assignments).Error
	return assignments, err
}

func (r *employeeLocationRepo) List(ctx context.Context, f *EmployeeLocationListFilters, offset, limit int) ([]model.EmployeeLocation, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EmployeeLocation{})
	if f != nil {
		if f.EmployeeID != 0 {
			q = q.Where("employee_id = ?", f.EmployeeID)
		}
		if f.LocationType != "" {
			q = q.Where("location_type = ?", f.LocationType)
		}
		if f.LocationID != "" {
			q = q.Where("location_id = ?", f.LocationID)
		}
		if f.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []model.EmployeeLocation
	err := q.Preload("Employee").
		Order("employee_id ASC, is_primary DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&assignments).Error
	return assignments, total, err
}

func (r *employeeLocationRepo) Update(ctx context.Context, assignment *model.EmployeeLocation) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *employeeLocationRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.EmployeeLocation{}, id).Error
}

func (r *employeeLocationRepo) ListEmergencyForLocation(ctx context.Context, locationType, locationID string) ([]model.EmployeeLocation, error) {
	var assignments []model.EmployeeLocation
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.id = employee_locations.employee_id").
		Where("employee_locations.location_type = ? AND employee_locations.location_id = ?", locationType, locationID).
		Where("employee_locations.show_in_emergency_contacts = ? AND employee_locations.is_active = ?", true, true).
		Where("employees.is_active = ?", true).
		Order("employee_locations.is_primary DESC, employees.first_name ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *employeeLocationRepo) CountEmergencyFlagged(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.EmployeeLocation{}).
		Joins("JOIN employees ON employees.id = employee_locations.employee_id").
		Where("employee_locations.show_in_emergency_contacts = ? AND employee_locations.is_active = ?", true, true).
		Where("employees.is_active = ?", true).
		Distinct("employee_locations.employee_id").
		Count(&total).Error
	return total, err
}
