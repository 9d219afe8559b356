package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
)

// GormCompensationRepository implements CompensationRepository using GORM
type GormCompensationRepository struct {
	db *gorm.DB
}

// NewGormCompensationRepository creates a new GormCompensationRepository
func NewGormCompensationRepository(db *gorm.DB) *GormCompensationRepository {
	return &GormCompensationRepository{db: db}
}

// FindByUserAndType finds the entry for a (user, type) pair
func (r *GormCompensationRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, compensationType string) (*payroll.CompensationEntry, error) {
	var entry payroll.CompensationEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND compensation_type = ?", userID, compensationType).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByUser returns all entries of one employee
func (r *GormCompensationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]payroll.CompensationEntry, error) {
	var entries []payroll.CompensationEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByUsers returns all entries of the given employees
func (r *GormCompensationRepository) FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]payroll.CompensationEntry, error) {
	if len(userIDs) == 0 {
		return []payroll.CompensationEntry{}, nil
	}

	var entries []payroll.CompensationEntry
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DistinctTypesForOrg returns the distinct compensation types present
// across an organization's employees
func (r *GormCompensationRepository) DistinctTypesForOrg(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	var types []string
	if err := r.db.WithContext(ctx).
		Model(&payroll.CompensationEntry{}).
		Distinct("compensations.compensation_type").
		Joins("JOIN employees ON employees.id = compensations.user_id").
		Where("employees.organization_id = ?", organizationID).
		Pluck("compensations.compensation_type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// Save creates or updates an entry
func (r *GormCompensationRepository) Save(ctx context.Context, entry *payroll.CompensationEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Ensure GormCompensationRepository implements CompensationRepository
var _ payroll.CompensationRepository = (*GormCompensationRepository)(nil)
