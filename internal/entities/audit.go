package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate   AuditEventType = "create"
	AuditEventUpdate   AuditEventType = "update"
	AuditEventDelete   AuditEventType = "delete"
	AuditEventFavorite AuditEventType = "favourite"
	AuditEventStatus   AuditEventType = "status"
	AuditEventBackup   AuditEventType = "backup"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusSkipped AuditStatus = "skipped"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "book_add", "catalog_add"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	BookID      string         `gorm:"index;size:36" json:"book_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
