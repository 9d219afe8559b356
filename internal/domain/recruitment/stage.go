package recruitment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/shared"
)

// JobStage represents a named step in an organization's hiring pipeline.
// It is the aggregate root for stage ordering operations.
//
// Within one organization the priorities of all stages always form the
// contiguous range [1, N] where N is the stage count. Every mutating
// operation re-establishes that invariant before it returns.
type JobStage struct {
	shared.OrgAggregateRoot
	Name     string `gorm:"type:varchar(200);not null"`
	Priority int    `gorm:"not null;index:idx_job_stages_org_priority,priority:2"`
}

// TableName returns the table name for GORM
func (JobStage) TableName() string {
	return "job_stages"
}

// NewJobStage creates a new stage for an organization
func NewJobStage(organizationID uuid.UUID, name string, priority int) (*JobStage, error) {
	if err := validateStageName(name); err != nil {
		return nil, err
	}
	if priority < 1 {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Stage priority must be a positive integer")
	}

	return &JobStage{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             strings.TrimSpace(name),
		Priority:         priority,
	}, nil
}

// Rename changes the stage's display name
func (s *JobStage) Rename(name string) error {
	if err := validateStageName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MoveTo places the stage at a new priority rank
func (s *JobStage) MoveTo(priority int) error {
	if priority < 1 {
		return shared.NewDomainError("INVALID_PRIORITY", "Stage priority must be a positive integer")
	}
	if priority == s.Priority {
		return shared.ErrNoChange
	}

	s.Priority = priority
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// NameEquals reports whether the stage name matches, ignoring case
func (s *JobStage) NameEquals(name string) bool {
	return strings.EqualFold(s.Name, strings.TrimSpace(name))
}

func validateStageName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Stage name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Stage name cannot exceed 200 characters")
	}
	return nil
}
