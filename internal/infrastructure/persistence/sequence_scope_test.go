package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apprecruitment "github.com/hrms/backend/internal/application/recruitment"
	"github.com/hrms/backend/internal/domain/recruitment"
)

func TestGormSequenceScope_Execute(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("commits the work on success", func(t *testing.T) {
		db := setupStageTestDB(t)
		scope := NewGormSequenceScope(db)

		err := scope.Execute(ctx, orgID, func(repos apprecruitment.SequencedRepositories) error {
			stage, err := recruitment.NewJobStage(orgID, "Applied", 1)
			if err != nil {
				return err
			}
			return repos.StageRepo().Save(ctx, stage)
		})
		require.NoError(t, err)

		stages, err := NewGormStageRepository(db).FindAllByPriority(ctx, orgID)
		require.NoError(t, err)
		assert.Len(t, stages, 1)
	})

	t.Run("rolls back all writes when the function fails", func(t *testing.T) {
		db := setupStageTestDB(t)
		scope := NewGormSequenceScope(db)
		boom := errors.New("boom")

		err := scope.Execute(ctx, orgID, func(repos apprecruitment.SequencedRepositories) error {
			stage, err := recruitment.NewJobStage(orgID, "Applied", 1)
			if err != nil {
				return err
			}
			if err := repos.StageRepo().Save(ctx, stage); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		stages, err := NewGormStageRepository(db).FindAllByPriority(ctx, orgID)
		require.NoError(t, err)
		assert.Empty(t, stages)
	})

	t.Run("exposes both repositories inside the scope", func(t *testing.T) {
		db := setupStageTestDB(t)
		scope := NewGormSequenceScope(db)

		err := scope.Execute(ctx, orgID, func(repos apprecruitment.SequencedRepositories) error {
			assert.NotNil(t, repos.StageRepo())
			assert.NotNil(t, repos.CandidateRepo())
			return nil
		})
		require.NoError(t, err)
	})
}
