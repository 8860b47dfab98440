package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AIReviewStatus tracks the classifier pass over a flag. A flag never moves
// back to REVIEWING once completed.
type AIReviewStatus string

const (
	AIReviewPending   AIReviewStatus = "PENDING"
	AIReviewReviewing AIReviewStatus = "REVIEWING"
	AIReviewCompleted AIReviewStatus = "COMPLETED"
)

// Flag is a user-submitted report against a content item. The composite
// unique index on (reporter_id, content_id) is the authoritative guard
// against duplicate reports under concurrency.
type Flag struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_flags_reporter_content" json:"reporter_id"`
	ContentID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_flags_reporter_content;index" json:"content_id"`
	Reason         string         `gorm:"size:500;not null" json:"reason"`
	AIReviewStatus AIReviewStatus `gorm:"size:20;not null;default:'PENDING';index" json:"ai_review_status"`
	AIReviewResult datatypes.JSON `gorm:"type:jsonb" json:"ai_review_result,omitempty"`
	AIConfidence   *float64       `json:"ai_confidence,omitempty"`
	AIReviewedAt   *time.Time     `json:"ai_reviewed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Reporter       User           `gorm:"foreignKey:ReporterID" json:"-"`
	Content        ContentItem    `gorm:"foreignKey:ContentID" json:"-"`
}

func (Flag) TableName() string {
	return "flags"
}
