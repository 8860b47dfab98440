package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationModerationAlert  NotificationType = "moderation_alert"
	NotificationModerationAction NotificationType = "moderation_action"
	NotificationReportOutcome    NotificationType = "report_outcome"
)

// Notification is an in-app notice requested by the moderation engine.
// Content/flag references live in Metadata only, so a notice survives
// removal of whatever it points at.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Message   string           `gorm:"size:1000;not null" json:"message"`
	Type      NotificationType `gorm:"size:50;not null;index" json:"type"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
