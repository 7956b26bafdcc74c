package audit

import "time"

const Topic = "hr.admin.audit.v1"

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
	ActionToggle  = "toggle_status"
	ActionImage   = "image"
)

// Entry records one confirmed admin mutation.
type Entry struct {
	EventType  string         `json:"event_type"`
	Entity     string         `json:"entity"`
	EntityID   int64          `json:"entity_id"`
	Action     string         `json:"action"`
	Message    string         `json:"message,omitempty"`
	Operator   string         `json:"operator,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// NewEntry builds an entry with EventType "<entity>.<action>".
func NewEntry(entity string, id int64, action, message string) Entry {
	return Entry{
		EventType: entity + "." + action,
		Entity:    entity,
		EntityID:  id,
		Action:    action,
		Message:   message,
	}
}
