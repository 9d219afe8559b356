package recruitment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/recruitment"
	"github.com/hrms/backend/internal/domain/shared"
)

// =============================================================================
// Stage DTOs
// =============================================================================

// CreateStageRequest represents a request to create a new pipeline stage
type CreateStageRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Priority int    `json:"priority" binding:"required"`
}

// RenameStageRequest represents a request to rename a stage
type RenameStageRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// MoveStageRequest represents a request to move a stage to a new priority
type MoveStageRequest struct {
	Priority int `json:"priority" binding:"required"`
}

// StageResponse represents a stage in API responses
type StageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStageResponse converts a domain JobStage to StageResponse
func ToStageResponse(stage *recruitment.JobStage) StageResponse {
	return StageResponse{
		ID:        stage.ID,
		Name:      stage.Name,
		Priority:  stage.Priority,
		CreatedAt: stage.CreatedAt,
		UpdatedAt: stage.UpdatedAt,
	}
}

// =============================================================================
// Stage Service
// =============================================================================

// StageService maintains the ordered stage sequence of each organization.
// All mutating operations leave the organization's priorities as the
// contiguous range [1, N] and invalidate the organization's cached list.
type StageService struct {
	scope     SequenceScope
	stageRepo recruitment.StageRepository
	cache     recruitment.StageListCache
	listTTL   time.Duration
	logger    *zap.Logger
}

// NewStageService creates a new StageService. A non-positive listTTL
// falls back to recruitment.DefaultStageListTTL.
func NewStageService(
	scope SequenceScope,
	stageRepo recruitment.StageRepository,
	cache recruitment.StageListCache,
	listTTL time.Duration,
	logger *zap.Logger,
) *StageService {
	if listTTL <= 0 {
		listTTL = recruitment.DefaultStageListTTL
	}
	return &StageService{
		scope:     scope,
		stageRepo: stageRepo,
		cache:     cache,
		listTTL:   listTTL,
		logger:    logger,
	}
}

// Create inserts a new stage at the requested priority.
//
// When the organization has no stages yet the new stage is created at
// priority 1 regardless of the requested value. Otherwise the request
// may append at maxPriority+1 or insert within [1, maxPriority], in
// which case every stage at or after the requested rank is shifted up
// by one before the insert.
func (s *StageService) Create(ctx context.Context, organizationID uuid.UUID, req CreateStageRequest) (*StageResponse, error) {
	if req.Priority < 1 {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Stage priority must be a positive integer")
	}

	var created *recruitment.JobStage
	err := s.scope.Execute(ctx, organizationID, func(repos SequencedRepositories) error {
		stageRepo := repos.StageRepo()

		exists, err := stageRepo.ExistsByName(ctx, organizationID, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrDuplicateName
		}

		last, err := stageRepo.MaxPriority(ctx, organizationID)
		if err != nil {
			return err
		}

		priority := req.Priority
		switch {
		case last == 0:
			// Bootstrap: the first stage always starts the sequence.
			priority = 1
		case req.Priority > last+1:
			return shared.ErrPriorityOutOfRange
		case req.Priority <= last:
			if err := stageRepo.ShiftPriorities(ctx, organizationID, req.Priority, last, 1); err != nil {
				return err
			}
		}

		stage, err := recruitment.NewJobStage(organizationID, req.Name, priority)
		if err != nil {
			return err
		}
		if err := stageRepo.Save(ctx, stage); err != nil {
			return err
		}

		created = stage
		return nil
	})
	if err != nil {
		s.logError("create stage", organizationID, err)
		return nil, err
	}

	s.invalidateCache(ctx, organizationID)

	response := ToStageResponse(created)
	return &response, nil
}

// Rename changes a stage's name, keeping names unique per organization
func (s *StageService) Rename(ctx context.Context, organizationID, stageID uuid.UUID, req RenameStageRequest) (*StageResponse, error) {
	stage, err := s.stageRepo.FindByIDForOrg(ctx, organizationID, stageID)
	if err != nil {
		return nil, err
	}

	exists, err := s.stageRepo.ExistsByName(ctx, organizationID, req.Name, &stageID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateName
	}

	if err := stage.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.stageRepo.Save(ctx, stage); err != nil {
		s.logError("rename stage", organizationID, err)
		return nil, err
	}

	s.invalidateCache(ctx, organizationID)

	response := ToStageResponse(stage)
	return &response, nil
}

// Delete removes a stage and closes the priority gap it leaves behind.
// A stage that still has candidates assigned cannot be deleted.
func (s *StageService) Delete(ctx context.Context, organizationID, stageID uuid.UUID) error {
	err := s.scope.Execute(ctx, organizationID, func(repos SequencedRepositories) error {
		stageRepo := repos.StageRepo()

		stage, err := stageRepo.FindByIDForOrg(ctx, organizationID, stageID)
		if err != nil {
			return err
		}

		dependents, err := repos.CandidateRepo().CountByStage(ctx, stageID)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return shared.ErrHasDependents
		}

		last, err := stageRepo.MaxPriority(ctx, organizationID)
		if err != nil {
			return err
		}

		if err := stageRepo.Delete(ctx, stageID); err != nil {
			return err
		}
		return stageRepo.ShiftPriorities(ctx, organizationID, stage.Priority+1, last, -1)
	})
	if err != nil {
		s.logError("delete stage", organizationID, err)
		return err
	}

	s.invalidateCache(ctx, organizationID)
	return nil
}

// Move places a stage at a new priority, shifting the stages in between.
// The shift is scoped to the stage's own organization.
func (s *StageService) Move(ctx context.Context, organizationID, stageID uuid.UUID, req MoveStageRequest) (*StageResponse, error) {
	var moved *recruitment.JobStage
	err := s.scope.Execute(ctx, organizationID, func(repos SequencedRepositories) error {
		stageRepo := repos.StageRepo()

		stage, err := stageRepo.FindByIDForOrg(ctx, organizationID, stageID)
		if err != nil {
			return err
		}
		if req.Priority == stage.Priority {
			return shared.ErrNoChange
		}

		last, err := stageRepo.MaxPriority(ctx, organizationID)
		if err != nil {
			return err
		}
		if req.Priority < 1 || req.Priority > last {
			return shared.ErrPriorityOutOfRange
		}

		if req.Priority < stage.Priority {
			err = stageRepo.ShiftPriorities(ctx, organizationID, req.Priority, stage.Priority-1, 1)
		} else {
			err = stageRepo.ShiftPriorities(ctx, organizationID, stage.Priority+1, req.Priority, -1)
		}
		if err != nil {
			return err
		}

		if err := stage.MoveTo(req.Priority); err != nil {
			return err
		}
		if err := stageRepo.Save(ctx, stage); err != nil {
			return err
		}

		moved = stage
		return nil
	})
	if err != nil {
		s.logError("move stage", organizationID, err)
		return nil, err
	}

	s.invalidateCache(ctx, organizationID)

	response := ToStageResponse(moved)
	return &response, nil
}

// List returns the organization's stages ordered by ascending priority,
// served from cache when a valid entry exists
func (s *StageService) List(ctx context.Context, organizationID uuid.UUID) ([]recruitment.StageListItem, error) {
	cached, err := s.cache.Get(ctx, organizationID)
	if err != nil {
		s.logger.Warn("Stage list cache read failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	stages, err := s.stageRepo.FindAllByPriority(ctx, organizationID)
	if err != nil {
		s.logError("list stages", organizationID, err)
		return nil, err
	}

	items := make([]recruitment.StageListItem, len(stages))
	for i, stage := range stages {
		items[i] = recruitment.StageListItem{
			ID:       stage.ID,
			Name:     stage.Name,
			Priority: stage.Priority,
		}
	}

	if err := s.cache.Set(ctx, organizationID, items, s.listTTL); err != nil {
		s.logger.Warn("Stage list cache write failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}

	return items, nil
}

func (s *StageService) invalidateCache(ctx context.Context, organizationID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, organizationID); err != nil {
		s.logger.Error("Stage list cache invalidation failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}
}

func (s *StageService) logError(op string, organizationID uuid.UUID, err error) {
	if _, ok := err.(*shared.DomainError); ok {
		return
	}
	s.logger.Error("Stage operation failed",
		zap.String("operation", op),
		zap.String("organization_id", organizationID.String()),
		zap.Error(err))
}
