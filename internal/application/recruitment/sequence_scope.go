package recruitment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/recruitment"
)

// SequenceScope serializes stage sequence mutations per organization.
// When a function is executed within the scope, all repository operations
// run inside one database transaction that holds a mutual-exclusion lock
// keyed by the organization, so concurrent create/move/delete calls for
// the same organization cannot interleave their priority shifts.
type SequenceScope interface {
	// Execute runs the given function under the organization's lock.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, organizationID uuid.UUID, fn func(repos SequencedRepositories) error) error
}

// SequencedRepositories provides access to the recruitment repositories
// within a sequence scope. All repositories returned share the same
// underlying database transaction.
type SequencedRepositories interface {
	// StageRepo returns the stage repository scoped to the current transaction
	StageRepo() recruitment.StageRepository
	// CandidateRepo returns the candidate repository scoped to the current transaction
	CandidateRepo() recruitment.CandidateRepository
}

// NoOpSequenceScope runs functions without a real transaction or lock.
// This is useful for testing or when transaction support is not required.
type NoOpSequenceScope struct {
	stageRepo     recruitment.StageRepository
	candidateRepo recruitment.CandidateRepository
}

// NewNoOpSequenceScope creates a NoOpSequenceScope with the given repositories.
func NewNoOpSequenceScope(
	stageRepo recruitment.StageRepository,
	candidateRepo recruitment.CandidateRepository,
) *NoOpSequenceScope {
	return &NoOpSequenceScope{
		stageRepo:     stageRepo,
		candidateRepo: candidateRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpSequenceScope) Execute(_ context.Context, _ uuid.UUID, fn func(repos SequencedRepositories) error) error {
	return fn(s)
}

// StageRepo returns the stage repository.
func (s *NoOpSequenceScope) StageRepo() recruitment.StageRepository {
	return s.stageRepo
}

// CandidateRepo returns the candidate repository.
func (s *NoOpSequenceScope) CandidateRepo() recruitment.CandidateRepository {
	return s.candidateRepo
}

// Ensure NoOpSequenceScope implements both interfaces
var _ SequenceScope = (*NoOpSequenceScope)(nil)
var _ SequencedRepositories = (*NoOpSequenceScope)(nil)
