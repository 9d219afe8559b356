package payroll

import (
	"context"

	"github.com/google/uuid"
)

// EmployeeRepository defines the read interface over employee records
type EmployeeRepository interface {
	// FindByID finds an employee by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// FindByIDForOrg finds an employee by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Employee, error)

	// CountCompensated counts the organization's employees that carry at
	// least one compensation entry
	CountCompensated(ctx context.Context, organizationID uuid.UUID) (int64, error)

	// FindCompensatedPage returns one page of the organization's employees
	// that carry at least one compensation entry, ordered by descending
	// join date with the employee ID as a stable tie-break
	FindCompensatedPage(ctx context.Context, organizationID uuid.UUID, offset, limit int) ([]Employee, error)

	// Save creates or updates an employee
	Save(ctx context.Context, employee *Employee) error
}
