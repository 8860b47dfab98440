package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fanout persists per-user notices. Moderator broadcasts resolve the roster
// once, then insert concurrently with bounded parallelism; one recipient's
// failure never blocks the others.
type Fanout struct {
	db        *gorm.DB
	directory ModeratorDirectory
	limit     int
}

func NewFanout(db *gorm.DB, directory ModeratorDirectory, limit int) *Fanout {
	if limit < 1 {
		limit = 8
	}
	return &Fanout{db: db, directory: directory, limit: limit}
}

// Notify writes a single notification row.
func (f *Fanout) Notify(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, metadata map[string]interface{}) error {
	meta, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}

	notification := models.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
		Metadata: meta,
	}
	if err := f.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyModerators takes a snapshot of the moderator roster and delivers the
// notice to each member. Per-recipient failures are logged and skipped; the
// call only errors when the roster itself cannot be resolved.
func (f *Fanout) NotifyModerators(ctx context.Context, title, message string, typ models.NotificationType, metadata map[string]interface{}) error {
	moderators, err := f.directory.ListModerators(ctx)
	if err != nil {
		return fmt.Errorf("failed to list moderators: %w", err)
	}
	if len(moderators) == 0 {
		slog.Warn("no moderator accounts found for broadcast", "action", "notify_moderators")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for _, id := range moderators {
		g.Go(func() error {
			if err := f.Notify(gctx, id, title, message, typ, metadata); err != nil {
				slog.Error("moderator notification failed",
					"action", "notify_moderators",
					"user_id", id.String(),
					"error", err.Error(),
				)
			}
			// per-recipient errors are absorbed so the group never cancels
			return nil
		})
	}
	return g.Wait()
}

func encodeMetadata(metadata map[string]interface{}) (datatypes.JSON, error) {
	if len(metadata) == 0 {
		return datatypes.JSON([]byte("{}")), nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification metadata: %w", err)
	}
	return datatypes.JSON(b), nil
}
