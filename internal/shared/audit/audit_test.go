package audit_test

import (
	"context"
	"testing"

	"ems-sync/internal/shared/audit"
	"ems-sync/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := audit.NewStdoutLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-9")
	l.Log(ctx, audit.Entry{
		Action:  "SESSION_LOGOUT",
		Message: "session logged out",
		Meta:    map[string]any{"employee_id": "EMP001"},
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "audit", entries[0].LoggerName)
		assert.Equal(t, "SESSION_LOGOUT", fields["action"])
		assert.Equal(t, "req-9", fields["request_id"])
	}
}
