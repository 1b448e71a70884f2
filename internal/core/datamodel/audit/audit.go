package audit

import "time"

type AuditLog struct {
	ID         int64     `gorm:"primaryKey"`
	EventID    string    `gorm:"column:event_id;size:64;uniqueIndex;not null"`
	EventType  string    `gorm:"column:event_type;size:64;not null;index"`
	EntityKind string    `gorm:"column:entity_kind;size:32;not null"`
	EntityID   int64     `gorm:"column:entity_id;not null"`
	Payload    string    `gorm:"column:payload;type:text"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
