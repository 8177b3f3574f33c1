package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreated = "employee_created"
	EmployeeUpdated = "employee_updated"
	EmployeeDeleted = "employee_deleted"
)

// EmployeeLifecycleEvent is a notification about a directory mutation. It is
// informational only; consumers must not treat it as a replication stream.
type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Department string    `json:"department,omitempty"`
	Status     string    `json:"status,omitempty"`
	Version    uint64    `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}
