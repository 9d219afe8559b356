package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrms/backend/internal/domain/recruitment"
	"github.com/hrms/backend/internal/domain/shared"
)

// GormStageRepository implements StageRepository using GORM
type GormStageRepository struct {
	db *gorm.DB
}

// NewGormStageRepository creates a new GormStageRepository
func NewGormStageRepository(db *gorm.DB) *GormStageRepository {
	return &GormStageRepository{db: db}
}

// FindByID finds a stage by its ID
func (r *GormStageRepository) FindByID(ctx context.Context, id uuid.UUID) (*recruitment.JobStage, error) {
	var stage recruitment.JobStage
	if err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// FindByIDForOrg finds a stage by ID within an organization
func (r *GormStageRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*recruitment.JobStage, error) {
	var stage recruitment.JobStage
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&stage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// FindAllByPriority returns all stages of an organization ordered by ascending priority
func (r *GormStageRepository) FindAllByPriority(ctx context.Context, organizationID uuid.UUID) ([]recruitment.JobStage, error) {
	var stages []recruitment.JobStage
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("priority ASC").
		Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// ExistsByName checks for a case-insensitive name match within an organization
func (r *GormStageRepository) ExistsByName(ctx context.Context, organizationID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&recruitment.JobStage{}).
		Where("organization_id = ? AND LOWER(name) = LOWER(?)", organizationID, strings.TrimSpace(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxPriority returns the highest priority in use, or 0 for an empty organization
func (r *GormStageRepository) MaxPriority(ctx context.Context, organizationID uuid.UUID) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&recruitment.JobStage{}).
		Where("organization_id = ?", organizationID).
		Select("COALESCE(MAX(priority), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// ShiftPriorities adds delta to every priority of the organization in [from, to].
// A single batch update keeps the shift free of transient collisions.
func (r *GormStageRepository) ShiftPriorities(ctx context.Context, organizationID uuid.UUID, from, to, delta int) error {
	if from > to {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&recruitment.JobStage{}).
		Where("organization_id = ? AND priority BETWEEN ? AND ?", organizationID, from, to).
		UpdateColumn("priority", gorm.Expr("priority + ?", delta)).Error
}

// Save creates or updates a stage
func (r *GormStageRepository) Save(ctx context.Context, stage *recruitment.JobStage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

// Delete deletes a stage
func (r *GormStageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&recruitment.JobStage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStageRepository implements StageRepository
var _ recruitment.StageRepository = (*GormStageRepository)(nil)
