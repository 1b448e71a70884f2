package audit

import (
	"time"

	auditDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/audit"
)

// Log is one recorded domain event.
type Log struct {
	ID         int64
	EventID    string
	EventType  string
	EntityKind string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

type LogResponse struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	EntityKind string    `json:"entityKind"`
	EntityID   int64     `json:"entityId"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (l *Log) ToResponse() LogResponse {
	return LogResponse{
		ID:         l.ID,
		EventID:    l.EventID,
		EventType:  l.EventType,
		EntityKind: l.EntityKind,
		EntityID:   l.EntityID,
		Payload:    l.Payload,
		OccurredAt: l.OccurredAt,
	}
}

type ListFilter struct {
	EventType  string
	EntityKind string
	EntityID   *int64
	Limit      int
}

func ToDataModel(l *Log) *auditDatamodel.AuditLog {
	return &auditDatamodel.AuditLog{
		ID:         l.ID,
		EventID:    l.EventID,
		EventType:  l.EventType,
		EntityKind: l.EntityKind,
		EntityID:   l.EntityID,
		Payload:    l.Payload,
		OccurredAt: l.OccurredAt,
	}
}

func FromDataModel(row *auditDatamodel.AuditLog) *Log {
	return &Log{
		ID:         row.ID,
		EventID:    row.EventID,
		EventType:  row.EventType,
		EntityKind: row.EntityKind,
		EntityID:   row.EntityID,
		Payload:    row.Payload,
		OccurredAt: row.OccurredAt,
		CreatedAt:  row.CreatedAt,
	}
}
