package payroll

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/shared"
)

// Employee represents an organization member carrying compensation entries.
// The payroll context only reads employees; the wider employee lifecycle
// (onboarding, edits, offboarding) belongs to another context.
type Employee struct {
	shared.OrgAggregateRoot
	Name     string    `gorm:"type:varchar(200);not null"`
	Email    string    `gorm:"type:varchar(200);not null"`
	JoinDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a new employee record
func NewEmployee(organizationID uuid.UUID, name, email string, joinDate time.Time) (*Employee, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Employee email cannot be empty")
	}

	return &Employee{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Email:            email,
		JoinDate:         joinDate,
	}, nil
}
