package recruitment

import (
	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/shared"
)

// CandidateStatus represents the status of an applied candidate
type CandidateStatus string

const (
	CandidateStatusActive   CandidateStatus = "active"
	CandidateStatusRejected CandidateStatus = "rejected"
	CandidateStatusHired    CandidateStatus = "hired"
)

// AppliedCandidate represents an applicant assigned to a pipeline stage.
// Stages with assigned candidates cannot be deleted.
type AppliedCandidate struct {
	shared.OrgAggregateRoot
	StageID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name    string          `gorm:"type:varchar(200);not null"`
	Email   string          `gorm:"type:varchar(200)"`
	Status  CandidateStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (AppliedCandidate) TableName() string {
	return "applied_candidates"
}

// NewAppliedCandidate creates a candidate assigned to a stage
func NewAppliedCandidate(organizationID, stageID uuid.UUID, name, email string) (*AppliedCandidate, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Candidate name cannot be empty")
	}

	return &AppliedCandidate{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		StageID:          stageID,
		Name:             name,
		Email:            email,
		Status:           CandidateStatusActive,
	}, nil
}
