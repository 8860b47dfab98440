package moderation

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/classifier"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateFlag means this reporter already has a flag open against
	// this content. Callers surface it as a benign "already reported".
	ErrDuplicateFlag = errors.New("content already reported by this user")
)

// FlagStore creates and updates report flags. The existence probe in
// TryCreate is an optimization; the composite unique index on
// (reporter_id, content_id) is the authoritative guard, so a concurrent
// duplicate insert also resolves to ErrDuplicateFlag.
type FlagStore struct {
	db *gorm.DB
}

func NewFlagStore(db *gorm.DB) *FlagStore {
	return &FlagStore{db: db}
}

// TryCreate inserts a flag in REVIEWING state, or fails with
// ErrDuplicateFlag if the (reporter, content) pair already reported.
func (s *FlagStore) TryCreate(reporterID, contentID uuid.UUID, reason string) (*models.Flag, error) {
	var existing models.Flag
	err := s.db.Where("reporter_id = ? AND content_id = ?", reporterID, contentID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateFlag
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing flag: %w", err)
	}

	flag := models.Flag{
		ID:             uuid.New(),
		ReporterID:     reporterID,
		ContentID:      contentID,
		Reason:         reason,
		AIReviewStatus: models.AIReviewReviewing,
	}
	if err := s.db.Create(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFlag
		}
		return nil, fmt.Errorf("failed to create flag: %w", err)
	}
	return &flag, nil
}

// Complete stores the classifier verdict snapshot on the flag and marks the
// review COMPLETED. A completed flag never goes back to REVIEWING.
func (s *FlagStore) Complete(flag *models.Flag, verdict classifier.Verdict) error {
	snapshot, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to encode verdict snapshot: %w", err)
	}

	now := time.Now()
	confidence := verdict.Confidence
	flag.AIReviewStatus = models.AIReviewCompleted
	flag.AIReviewResult = datatypes.JSON(snapshot)
	flag.AIConfidence = &confidence
	flag.AIReviewedAt = &now

	result := s.db.Model(&models.Flag{}).
		Where("id = ?", flag.ID).
		Updates(map[string]interface{}{
			"ai_review_status": flag.AIReviewStatus,
			"ai_review_result": flag.AIReviewResult,
			"ai_confidence":    flag.AIConfidence,
			"ai_reviewed_at":   flag.AIReviewedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete flag review: %w", result.Error)
	}
	return nil
}

// List returns flags for the admin panel, newest first, optionally filtered
// by review status.
func (s *FlagStore) List(status string, limit, offset int) ([]models.Flag, int64, error) {
	var flags []models.Flag
	var total int64

	query := s.db.Model(&models.Flag{})
	if status != "" {
		query = query.Where("ai_review_status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&flags).Error; err != nil {
		return nil, 0, err
	}
	return flags, total, nil
}
