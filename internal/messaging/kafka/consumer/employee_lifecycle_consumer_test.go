package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ems-sync/internal/events"
	"ems-sync/internal/shared/audit"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.messages) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	r.mu.Unlock()
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *recordingAudit) Log(_ context.Context, e audit.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func mustMessage(t *testing.T, ev events.EmployeeLifecycleEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	assert.NoError(t, err)
	return kafkago.Message{Topic: events.EmployeeLifecycleTopic, Key: []byte(ev.EmployeeID), Value: b}
}

func TestConsumeEmployeeLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			mustMessage(t, events.EmployeeLifecycleEvent{
				EventType:  events.EmployeeCreated,
				EmployeeID: "EMP004",
				Department: "Engineering",
				Version:    2,
				OccurredAt: time.Now(),
			}),
			{Value: []byte("not-json")},
			mustMessage(t, events.EmployeeLifecycleEvent{EventType: events.EmployeeDeleted, EmployeeID: "EMP001", Version: 3}),
		},
	}
	recorder := &recordingAudit{}

	done := make(chan struct{})
	go func() {
		ConsumeEmployeeLifecycle(ctx, reader, recorder, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Len(t, reader.committed, 3)
	if assert.Len(t, recorder.entries, 2) {
		assert.Equal(t, "EMPLOYEE_CREATED", recorder.entries[0].Action)
		assert.Equal(t, "EMP004", recorder.entries[0].Meta["employee_id"])
		assert.Equal(t, "EMPLOYEE_DELETED", recorder.entries[1].Action)
	}
}

func TestAuditAction(t *testing.T) {
	assert.Equal(t, "EMPLOYEE_UPDATED", auditAction(events.EmployeeUpdated))
	assert.Equal(t, "EMPLOYEE_EVENT", auditAction("other"))
}
