package entity

import "time"

type ActionType string

const (
	ActionCreate   ActionType = "create"
	ActionUpdate   ActionType = "update"
	ActionComplete ActionType = "complete"
	ActionDelete   ActionType = "delete"
)

// AuditMessage is the wire form published to the audit queue after a
// successful mutation. Values holds the task state after the mutation; it is
// nil for deletes, where only the id is known.
type AuditMessage struct {
	Action    ActionType     `json:"action"`
	EntityID  int            `json:"entity_id"`
	Values    map[string]any `json:"values,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// TaskAudit is the persisted audit row written by the worker.
type TaskAudit struct {
	ID         int        `json:"id"`
	Action     ActionType `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   int        `json:"entity_id"`
	Values     *string    `json:"values"`
	ChangedAt  time.Time  `json:"changed_at"`
}
