package consumer

import (
	"context"
	"encoding/json"

	"ems-sync/internal/events"
	"ems-sync/internal/shared/audit"
	"ems-sync/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEmployeeLifecycle turns lifecycle events into audit entries until ctx is done.
// Undecodable messages are committed and skipped.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	auditLogger audit.Logger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(contextutil.WithRequestID(ctx, event.RequestID), audit.Entry{
			Action:  auditAction(event.EventType),
			Message: "employee " + event.EmployeeID + " " + event.EventType,
			Meta: map[string]any{
				"employee_id": event.EmployeeID,
				"department":  event.Department,
				"status":      event.Status,
				"version":     event.Version,
				"occurred_at": event.OccurredAt,
				"partition":   msg.Partition,
				"offset":      msg.Offset,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("employee lifecycle event recorded",
			zap.String("employee_id", event.EmployeeID),
			zap.String("event_type", event.EventType),
		)
	}
}

func auditAction(eventType string) string {
	switch eventType {
	case events.EmployeeCreated:
		return "EMPLOYEE_CREATED"
	case events.EmployeeUpdated:
		return "EMPLOYEE_UPDATED"
	case events.EmployeeDeleted:
		return "EMPLOYEE_DELETED"
	default:
		return "EMPLOYEE_EVENT"
	}
}
