package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the crisis/self-harm severity tier derived from content text.
// It is independent of policy compliance.
type RiskLevel string

const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ModerationStatus is the lifecycle state of a content item with respect to
// policy enforcement.
type ModerationStatus string

const (
	ModerationPending     ModerationStatus = "PENDING"
	ModerationApproved    ModerationStatus = "APPROVED"
	ModerationUnderReview ModerationStatus = "UNDER_REVIEW"
	ModerationRejected    ModerationStatus = "REJECTED"
)

// ContentKind distinguishes the content surfaces sharing the moderation pipeline.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindReply   ContentKind = "reply"
	KindComment ContentKind = "comment"
)

// ContentItem is a user-submitted post, reply or comment. Moderation fields
// are written only by the moderation engine, never by content edits directly.
type ContentItem struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Kind             ContentKind      `gorm:"size:20;not null;default:'post';index" json:"kind"`
	AuthorID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`
	Body             string           `gorm:"type:text;not null" json:"body"`
	Language         string           `gorm:"size:10;default:'en'" json:"language"`
	RiskLevel        RiskLevel        `gorm:"size:10;not null;default:'NONE'" json:"risk_level"`
	Flagged          bool             `gorm:"not null;default:false;index" json:"flagged"`
	ModerationStatus ModerationStatus `gorm:"size:20;not null;default:'PENDING';index" json:"moderation_status"`
	ModerationReason string           `gorm:"size:500" json:"moderation_reason,omitempty"`
	ModerationNote   string           `gorm:"size:1000" json:"moderation_note,omitempty"`
	IsHidden         bool             `gorm:"not null;default:false" json:"is_hidden"`
	ModeratedAt      *time.Time       `json:"moderated_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Author           User             `gorm:"foreignKey:AuthorID" json:"-"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
