package payroll

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
)

// =============================================================================
// Compensation DTOs
// =============================================================================

// CompensationInput is one pay component in a save request.
// A nil amount preserves the stored value when the entry already exists.
type CompensationInput struct {
	CompensationType string           `json:"compensation_type" binding:"required,min=1,max=200"`
	Amount           *decimal.Decimal `json:"amount"`
}

// SaveCompensationsRequest represents a batch compensation save for one employee
type SaveCompensationsRequest struct {
	Compensations []CompensationInput `json:"compensations" binding:"required,min=1,dive"`
}

// CompensationResponse represents one pay component in API responses
type CompensationResponse struct {
	CompensationType string          `json:"compensation_type"`
	Amount           decimal.Decimal `json:"amount"`
}

// MatrixRow is one employee row of the compensation matrix
type MatrixRow struct {
	UserID        uuid.UUID                  `json:"user_id"`
	Name          string                     `json:"name"`
	Compensations map[string]decimal.Decimal `json:"compensations"`
	Total         decimal.Decimal            `json:"total"`
}

// MatrixResponse is one page of the compensation matrix
type MatrixResponse struct {
	Data    []MatrixRow `json:"data"`
	Types   []string    `json:"types"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Total   int64       `json:"total"`
	Pages   int         `json:"pages"`
}

// =============================================================================
// Compensation Service
// =============================================================================

// CompensationService handles compensation persistence and the pivoted
// per-organization compensation matrix.
//
// The matrix discovers its columns from the data; the discovered set is
// snapshotted into the type registry cache as the last step of every
// successful build, and single-employee payroll reads use that snapshot
// so they stay consistent with the last-built matrix.
type CompensationService struct {
	compRepo     payroll.CompensationRepository
	employeeRepo payroll.EmployeeRepository
	registry     payroll.TypeRegistryCache
	logger       *zap.Logger
}

// NewCompensationService creates a new CompensationService
func NewCompensationService(
	compRepo payroll.CompensationRepository,
	employeeRepo payroll.EmployeeRepository,
	registry payroll.TypeRegistryCache,
	logger *zap.Logger,
) *CompensationService {
	return &CompensationService{
		compRepo:     compRepo,
		employeeRepo: employeeRepo,
		registry:     registry,
		logger:       logger,
	}
}

// Save upserts the employee's compensation entries.
//
// For each component, an existing (user, type) entry keeps its stored
// amount when the request carries a nil amount; a non-nil amount
// overwrites it, zero included. Missing pairs are inserted, with a nil
// amount treated as zero.
func (s *CompensationService) Save(ctx context.Context, organizationID, userID uuid.UUID, req SaveCompensationsRequest) ([]CompensationResponse, error) {
	if _, err := s.employeeRepo.FindByIDForOrg(ctx, organizationID, userID); err != nil {
		return nil, err
	}

	results := make([]CompensationResponse, 0, len(req.Compensations))
	for _, input := range req.Compensations {
		entry, err := s.upsertOne(ctx, userID, input)
		if err != nil {
			s.logger.Error("Compensation save failed",
				zap.String("user_id", userID.String()),
				zap.String("compensation_type", input.CompensationType),
				zap.Error(err))
			return nil, err
		}
		results = append(results, CompensationResponse{
			CompensationType: entry.CompensationType,
			Amount:           entry.Amount,
		})
	}

	return results, nil
}

func (s *CompensationService) upsertOne(ctx context.Context, userID uuid.UUID, input CompensationInput) (*payroll.CompensationEntry, error) {
	existing, err := s.compRepo.FindByUserAndType(ctx, userID, input.CompensationType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if input.Amount == nil {
			return existing, nil
		}
		if err := existing.UpdateAmount(*input.Amount); err != nil {
			return nil, err
		}
		if err := s.compRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	amount := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	}
	entry, err := payroll.NewCompensationEntry(userID, input.CompensationType, amount)
	if err != nil {
		return nil, err
	}
	if err := s.compRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// BuildMatrix computes one page of the organization's compensation matrix.
//
// Columns are the distinct compensation types across the organization's
// employees, sorted ascending for a deterministic order. Rows cover the
// employees holding at least one entry, newest join date first with the
// employee ID as tie-break. Missing cells are zero-filled; each row's
// total sums all of that employee's entries. On success the discovered
// column set overwrites the organization's type registry snapshot.
func (s *CompensationService) BuildMatrix(ctx context.Context, organizationID uuid.UUID, page, perPage int) (*MatrixResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	types, err := s.compRepo.DistinctTypesForOrg(ctx, organizationID)
	if err != nil {
		s.logMatrixError(organizationID, err)
		return nil, err
	}
	sort.Strings(types)

	total, err := s.employeeRepo.CountCompensated(ctx, organizationID)
	if err != nil {
		s.logMatrixError(organizationID, err)
		return nil, err
	}
	if total == 0 {
		// Nothing to pivot; leave the registry snapshot untouched.
		return &MatrixResponse{
			Data:    []MatrixRow{},
			Types:   []string{},
			Page:    page,
			PerPage: perPage,
			Total:   0,
			Pages:   0,
		}, nil
	}

	employees, err := s.employeeRepo.FindCompensatedPage(ctx, organizationID, (page-1)*perPage, perPage)
	if err != nil {
		s.logMatrixError(organizationID, err)
		return nil, err
	}

	userIDs := make([]uuid.UUID, len(employees))
	for i, employee := range employees {
		userIDs[i] = employee.ID
	}
	entries, err := s.compRepo.FindByUsers(ctx, userIDs)
	if err != nil {
		s.logMatrixError(organizationID, err)
		return nil, err
	}

	amounts := make(map[uuid.UUID]map[string]decimal.Decimal)
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, entry := range entries {
		byType := amounts[entry.UserID]
		if byType == nil {
			byType = make(map[string]decimal.Decimal)
			amounts[entry.UserID] = byType
		}
		byType[entry.CompensationType] = byType[entry.CompensationType].Add(entry.Amount)
		totals[entry.UserID] = totals[entry.UserID].Add(entry.Amount)
	}

	rows := make([]MatrixRow, len(employees))
	for i, employee := range employees {
		cells := make(map[string]decimal.Decimal, len(types))
		for _, t := range types {
			cells[t] = decimal.Zero
			if byType, ok := amounts[employee.ID]; ok {
				if amount, ok := byType[t]; ok {
					cells[t] = amount
				}
			}
		}
		rows[i] = MatrixRow{
			UserID:        employee.ID,
			Name:          employee.Name,
			Compensations: cells,
			Total:         totals[employee.ID],
		}
	}

	pages := int(total) / perPage
	if int(total)%perPage > 0 {
		pages++
	}

	// The registry write is the last step so a failed build never leaves
	// a half-built column snapshot behind.
	if err := s.registry.Set(ctx, organizationID, types); err != nil {
		s.logger.Error("Type registry write failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}

	return &MatrixResponse{
		Data:    rows,
		Types:   types,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	}, nil
}

// GetEmployeePayroll returns the employee's amount for every type in the
// organization's registry snapshot, sorted by type name, zero-filling
// types the employee has no entry for. An absent snapshot yields an
// empty sequence rather than an error, since the registry only exists
// after a matrix has been built at least once.
func (s *CompensationService) GetEmployeePayroll(ctx context.Context, organizationID, userID uuid.UUID) ([]CompensationResponse, error) {
	if _, err := s.employeeRepo.FindByIDForOrg(ctx, organizationID, userID); err != nil {
		return nil, err
	}

	types, err := s.registry.Get(ctx, organizationID)
	if err != nil {
		s.logger.Warn("Type registry read failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}
	if len(types) == 0 {
		return []CompensationResponse{}, nil
	}
	sort.Strings(types)

	entries, err := s.compRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		byType[entry.CompensationType] = byType[entry.CompensationType].Add(entry.Amount)
	}

	results := make([]CompensationResponse, len(types))
	for i, t := range types {
		amount := decimal.Zero
		if stored, ok := byType[t]; ok {
			amount = stored
		}
		results[i] = CompensationResponse{
			CompensationType: t,
			Amount:           amount,
		}
	}

	return results, nil
}

func (s *CompensationService) logMatrixError(organizationID uuid.UUID, err error) {
	s.logger.Error("Compensation matrix build failed",
		zap.String("organization_id", organizationID.String()),
		zap.Error(err))
}
