package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext_AndFromContext(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx := WithContext(ctx, logger)

	assert.Equal(t, logger, FromContext(newCtx))
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()

	logger := FromContext(ctx)

	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
}

func TestWithOrganizationID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	organizationID := "org-456"

	newCtx, newLogger := WithOrganizationID(ctx, logger, organizationID)

	assert.NotNil(t, newLogger)
	assert.Equal(t, organizationID, GetOrganizationID(newCtx))
}

func TestWithUserID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	userID := "user-789"

	newCtx, newLogger := WithUserID(ctx, logger, userID)

	assert.NotNil(t, newLogger)
	assert.Equal(t, userID, GetUserID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
}

func TestGetOrganizationID_NotFound(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetOrganizationID(ctx))
}

func TestGetUserID_NotFound(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetUserID(ctx))
}

func TestContextEnrichment_Chained(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithOrganizationID(ctx, logger, "org-1")
	ctx, _ = WithUserID(ctx, logger, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "org-1", GetOrganizationID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestContextKeys_AreDistinct(t *testing.T) {
	assert.NotEqual(t, RequestIDKey, OrganizationIDKey)
	assert.NotEqual(t, OrganizationIDKey, UserIDKey)
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}
