package audit

import (
	"context"
	"time"

	"ems-sync/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// StdoutLogger writes audit entries through zap on the "audit" logger.
type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	md := contextutil.ExtractMetadata(ctx)
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("request_id", md.RequestID),
		zap.Any("meta", entry.Meta),
	)
}

type nopLogger struct{}

func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Log(context.Context, Entry) {}
