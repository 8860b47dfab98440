package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"gorm.io/gorm"
)

// ModeratorDirectory resolves the set of moderator accounts. Injected so the
// fan-out is testable with a fixed roster.
type ModeratorDirectory interface {
	ListModerators(ctx context.Context) ([]uuid.UUID, error)
}

// GormDirectory looks up moderators from the users table.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) ListModerators(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", []string{"moderator", "admin"}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
