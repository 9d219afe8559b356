package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrms/backend/internal/domain/shared"
)

// CompensationEntry represents one pay component of an employee.
// There is at most one entry per (user, compensation type) pair; writes
// for an existing pair overwrite the amount instead of inserting.
//
// Compensation types are free-form labels discovered from the data, not
// values of a fixed enumeration.
type CompensationEntry struct {
	shared.BaseAggregateRoot
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_compensations_user_type,priority:1"`
	CompensationType string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_compensations_user_type,priority:2"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName returns the table name for GORM
func (CompensationEntry) TableName() string {
	return "compensations"
}

// NewCompensationEntry creates a new compensation entry for an employee
func NewCompensationEntry(userID uuid.UUID, compensationType string, amount decimal.Decimal) (*CompensationEntry, error) {
	trimmed := strings.TrimSpace(compensationType)
	if trimmed == "" {
		return nil, shared.NewDomainError("INVALID_TYPE", "Compensation type cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Compensation amount cannot be negative")
	}

	return &CompensationEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		CompensationType:  trimmed,
		Amount:            amount,
	}, nil
}

// UpdateAmount overwrites the entry's amount
func (c *CompensationEntry) UpdateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Compensation amount cannot be negative")
	}

	c.Amount = amount
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}
