package recruitment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/recruitment"
	"github.com/hrms/backend/internal/domain/shared"
)

// memoryStageRepository is a map-backed StageRepository used to drive the
// service through long operation sequences without mock choreography.
type memoryStageRepository struct {
	stages map[uuid.UUID]*recruitment.JobStage
}

func newMemoryStageRepository() *memoryStageRepository {
	return &memoryStageRepository{stages: make(map[uuid.UUID]*recruitment.JobStage)}
}

func (r *memoryStageRepository) FindByID(ctx context.Context, id uuid.UUID) (*recruitment.JobStage, error) {
	if stage, ok := r.stages[id]; ok {
		return stage, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryStageRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*recruitment.JobStage, error) {
	stage, ok := r.stages[id]
	if !ok || stage.OrganizationID != organizationID {
		return nil, shared.ErrNotFound
	}
	return stage, nil
}

func (r *memoryStageRepository) FindAllByPriority(ctx context.Context, organizationID uuid.UUID) ([]recruitment.JobStage, error) {
	var out []recruitment.JobStage
	for _, stage := range r.stages {
		if stage.OrganizationID == organizationID {
			out = append(out, *stage)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (r *memoryStageRepository) ExistsByName(ctx context.Context, organizationID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	for _, stage := range r.stages {
		if stage.OrganizationID != organizationID {
			continue
		}
		if excludeID != nil && stage.ID == *excludeID {
			continue
		}
		if strings.EqualFold(stage.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryStageRepository) MaxPriority(ctx context.Context, organizationID uuid.UUID) (int, error) {
	max := 0
	for _, stage := range r.stages {
		if stage.OrganizationID == organizationID && stage.Priority > max {
			max = stage.Priority
		}
	}
	return max, nil
}

func (r *memoryStageRepository) ShiftPriorities(ctx context.Context, organizationID uuid.UUID, from, to, delta int) error {
	for _, stage := range r.stages {
		if stage.OrganizationID == organizationID && stage.Priority >= from && stage.Priority <= to {
			stage.Priority += delta
		}
	}
	return nil
}

func (r *memoryStageRepository) Save(ctx context.Context, stage *recruitment.JobStage) error {
	r.stages[stage.ID] = stage
	return nil
}

func (r *memoryStageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.stages, id)
	return nil
}

type memoryCandidateRepository struct{}

func (memoryCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*recruitment.AppliedCandidate, error) {
	return nil, shared.ErrNotFound
}

func (memoryCandidateRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	return 0, nil
}

func (memoryCandidateRepository) Save(ctx context.Context, candidate *recruitment.AppliedCandidate) error {
	return nil
}

func (memoryCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type nopStageListCache struct{}

func (nopStageListCache) Get(ctx context.Context, organizationID uuid.UUID) ([]recruitment.StageListItem, error) {
	return nil, nil
}

func (nopStageListCache) Set(ctx context.Context, organizationID uuid.UUID, items []recruitment.StageListItem, ttl time.Duration) error {
	return nil
}

func (nopStageListCache) Invalidate(ctx context.Context, organizationID uuid.UUID) error {
	return nil
}

func (nopStageListCache) Close() error { return nil }

// requireDenseSequence asserts the organization's priorities are exactly
// the contiguous range [1, N].
func requireDenseSequence(t *testing.T, repo *memoryStageRepository, organizationID uuid.UUID) {
	t.Helper()
	stages, err := repo.FindAllByPriority(context.Background(), organizationID)
	require.NoError(t, err)
	for i, stage := range stages {
		require.Equal(t, i+1, stage.Priority,
			"priority gap at position %d of %d stages", i, len(stages))
	}
}

// TestStageSequenceRemainsDense drives the service through a long random
// sequence of creates, moves, and deletes across two organizations and
// checks after every operation that neither organization's sequence has
// gaps or duplicates.
func TestStageSequenceRemainsDense(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryStageRepository()
	scope := NewNoOpSequenceScope(repo, memoryCandidateRepository{})
	service := NewStageService(scope, repo, nopStageListCache{}, 0, zap.NewNop())

	orgs := []uuid.UUID{uuid.New(), uuid.New()}
	rng := rand.New(rand.NewSource(20260831))
	nextName := 0

	for step := 0; step < 400; step++ {
		org := orgs[rng.Intn(len(orgs))]
		stages, err := repo.FindAllByPriority(ctx, org)
		require.NoError(t, err)
		last := len(stages)

		switch op := rng.Intn(10); {
		case op < 5 || last == 0:
			nextName++
			req := CreateStageRequest{
				Name:     fmt.Sprintf("Stage %d", nextName),
				Priority: 1 + rng.Intn(last+1),
			}
			_, err := service.Create(ctx, org, req)
			require.NoError(t, err, "step %d: create at %d with %d stages", step, req.Priority, last)
		case op < 8:
			target := stages[rng.Intn(last)]
			req := MoveStageRequest{Priority: 1 + rng.Intn(last)}
			_, err := service.Move(ctx, org, target.ID, req)
			if req.Priority == target.Priority {
				require.ErrorIs(t, err, shared.ErrNoChange)
			} else {
				require.NoError(t, err, "step %d: move %d -> %d with %d stages", step, target.Priority, req.Priority, last)
			}
		default:
			target := stages[rng.Intn(last)]
			require.NoError(t, service.Delete(ctx, org, target.ID),
				"step %d: delete priority %d of %d stages", step, target.Priority, last)
		}

		for _, org := range orgs {
			requireDenseSequence(t, repo, org)
		}
	}

	// Sanity on the rejection edges the loop never exercises.
	org := orgs[0]
	last, err := repo.MaxPriority(ctx, org)
	require.NoError(t, err)
	if last == 0 {
		_, err = service.Create(ctx, org, CreateStageRequest{Name: "Seed", Priority: 1})
		require.NoError(t, err)
		last = 1
	}

	nextName++
	_, err = service.Create(ctx, org, CreateStageRequest{
		Name:     fmt.Sprintf("Stage %d", nextName),
		Priority: last + 2,
	})
	assert.True(t, errors.Is(err, shared.ErrPriorityOutOfRange))
	requireDenseSequence(t, repo, org)
}
