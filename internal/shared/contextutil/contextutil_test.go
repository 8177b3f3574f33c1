package contextutil_test

import (
	"context"
	"testing"

	"ems-sync/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	ctx = contextutil.WithSessionID(ctx, "sid-1")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "req-1", md.RequestID)
	assert.Equal(t, "sid-1", md.SessionID)
	assert.Empty(t, contextutil.GetRequestID(context.Background()))
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewNop().Named("fallback")
	scoped := zap.NewNop().Named("scoped")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
