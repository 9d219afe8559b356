package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apprecruitment "github.com/hrms/backend/internal/application/recruitment"
	"github.com/hrms/backend/internal/domain/recruitment"
)

// GormSequenceScope implements SequenceScope using GORM transactions.
// On PostgreSQL every execution takes a transaction-scoped advisory lock
// keyed by the organization ID, so concurrent priority shifts for the
// same organization serialize instead of corrupting the dense [1, N]
// priority range. The lock is released automatically on commit/rollback.
type GormSequenceScope struct {
	db *gorm.DB
}

// NewGormSequenceScope creates a new GormSequenceScope.
func NewGormSequenceScope(db *gorm.DB) *GormSequenceScope {
	return &GormSequenceScope{db: db}
}

// Execute runs the given function within a database transaction holding
// the organization's advisory lock.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormSequenceScope) Execute(ctx context.Context, organizationID uuid.UUID, fn func(repos apprecruitment.SequencedRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(
				"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
				organizationID.String(),
			).Error; err != nil {
				return err
			}
		}
		repos := &gormSequencedRepositories{tx: tx}
		return fn(repos)
	})
}

// gormSequencedRepositories provides access to the recruitment repositories
// within a transaction.
type gormSequencedRepositories struct {
	tx *gorm.DB
}

// StageRepo returns the stage repository scoped to the current transaction.
func (r *gormSequencedRepositories) StageRepo() recruitment.StageRepository {
	return NewGormStageRepository(r.tx)
}

// CandidateRepo returns the candidate repository scoped to the current transaction.
func (r *gormSequencedRepositories) CandidateRepo() recruitment.CandidateRepository {
	return NewGormCandidateRepository(r.tx)
}

// Ensure GormSequenceScope implements SequenceScope
var _ apprecruitment.SequenceScope = (*GormSequenceScope)(nil)

// Ensure gormSequencedRepositories implements SequencedRepositories
var _ apprecruitment.SequencedRepositories = (*gormSequencedRepositories)(nil)
