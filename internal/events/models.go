package events

import (
	"encoding/json"
	"time"
)

const (
	AuditMessageKind string = "rack-planner.events.audit"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AuditEvent describes a committed mutation of the inventory.
type AuditEvent struct {
	Action    Action          `json:"action"`
	Module    string          `json:"module"`
	TargetID  string          `json:"targetId"`
	OldValue  json.RawMessage `json:"oldValue,omitempty"`
	NewValue  json.RawMessage `json:"newValue,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Time      time.Time       `json:"time"`
}

// Message is what the producer hands over to the writer.
type Message struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Kind   string          `json:"kind"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}
