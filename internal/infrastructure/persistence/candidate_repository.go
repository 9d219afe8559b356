package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrms/backend/internal/domain/recruitment"
	"github.com/hrms/backend/internal/domain/shared"
)

// GormCandidateRepository implements CandidateRepository using GORM
type GormCandidateRepository struct {
	db *gorm.DB
}

// NewGormCandidateRepository creates a new GormCandidateRepository
func NewGormCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	return &GormCandidateRepository{db: db}
}

// FindByID finds a candidate by its ID
func (r *GormCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*recruitment.AppliedCandidate, error) {
	var candidate recruitment.AppliedCandidate
	if err := r.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

// CountByStage counts candidates currently assigned to a stage
func (r *GormCandidateRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&recruitment.AppliedCandidate{}).
		Where("stage_id = ?", stageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a candidate
func (r *GormCandidateRepository) Save(ctx context.Context, candidate *recruitment.AppliedCandidate) error {
	return r.db.WithContext(ctx).Save(candidate).Error
}

// Delete deletes a candidate
func (r *GormCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&recruitment.AppliedCandidate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCandidateRepository implements CandidateRepository
var _ recruitment.CandidateRepository = (*GormCandidateRepository)(nil)
