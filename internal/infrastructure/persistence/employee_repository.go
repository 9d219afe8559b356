package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Employee, error) {
	var employee payroll.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByIDForOrg finds an employee by ID within an organization
func (r *GormEmployeeRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*payroll.Employee, error) {
	var employee payroll.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// CountCompensated counts the organization's employees holding at least
// one compensation entry
func (r *GormEmployeeRepository) CountCompensated(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payroll.Employee{}).
		Where("organization_id = ?", organizationID).
		Where("EXISTS (SELECT 1 FROM compensations WHERE compensations.user_id = employees.id)").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindCompensatedPage returns one page of the organization's employees
// holding at least one compensation entry, newest join date first with
// the employee ID as a stable tie-break
func (r *GormEmployeeRepository) FindCompensatedPage(ctx context.Context, organizationID uuid.UUID, offset, limit int) ([]payroll.Employee, error) {
	var employees []payroll.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("EXISTS (SELECT 1 FROM compensations WHERE compensations.user_id = employees.id)").
		Order("join_date DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *payroll.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)
