package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedDirectory struct {
	ids   []uuid.UUID
	err   error
	calls int
}

func (d *fixedDirectory) ListModerators(context.Context) ([]uuid.UUID, error) {
	d.calls++
	return d.ids, d.err
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))
	return db
}

func TestNotifyWritesRow(t *testing.T) {
	db := testDB(t)
	f := NewFanout(db, &fixedDirectory{}, 4)
	userID := uuid.New()

	err := f.Notify(context.Background(), userID, "Title", "Message", models.NotificationReportOutcome,
		map[string]interface{}{"content_id": "abc"})
	require.NoError(t, err)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "user_id = ?", userID).Error)
	assert.Equal(t, "Title", stored.Title)
	assert.Equal(t, models.NotificationReportOutcome, stored.Type)
	assert.False(t, stored.IsRead)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(stored.Metadata, &meta))
	assert.Equal(t, "abc", meta["content_id"])
}

func TestNotifyEmptyMetadata(t *testing.T) {
	db := testDB(t)
	f := NewFanout(db, &fixedDirectory{}, 4)
	userID := uuid.New()

	require.NoError(t, f.Notify(context.Background(), userID, "T", "M", models.NotificationModerationAction, nil))

	var stored models.Notification
	require.NoError(t, db.First(&stored, "user_id = ?", userID).Error)
	assert.JSONEq(t, "{}", string(stored.Metadata))
}

func TestNotifyModeratorsDeliversToEveryone(t *testing.T) {
	db := testDB(t)
	roster := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	dir := &fixedDirectory{ids: roster}
	f := NewFanout(db, dir, 2)

	err := f.NotifyModerators(context.Background(), "Alert", "Needs attention",
		models.NotificationModerationAlert, map[string]interface{}{"content_id": "x"})
	require.NoError(t, err)

	// roster resolved once per broadcast
	assert.Equal(t, 1, dir.calls)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, len(roster), count)

	for _, id := range roster {
		var n models.Notification
		require.NoError(t, db.First(&n, "user_id = ?", id).Error)
		assert.Equal(t, "Alert", n.Title)
	}
}

func TestNotifyModeratorsEmptyRoster(t *testing.T) {
	db := testDB(t)
	f := NewFanout(db, &fixedDirectory{}, 4)

	err := f.NotifyModerators(context.Background(), "Alert", "M", models.NotificationModerationAlert, nil)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestNotifyModeratorsRosterFailure(t *testing.T) {
	db := testDB(t)
	f := NewFanout(db, &fixedDirectory{err: errors.New("users table on fire")}, 4)

	err := f.NotifyModerators(context.Background(), "Alert", "M", models.NotificationModerationAlert, nil)
	assert.Error(t, err)
}

func TestNotifyModeratorsOneFailureDoesNotSuppressOthers(t *testing.T) {
	db := testDB(t)
	roster := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	poisoned := roster[1]

	// reject the insert for one recipient only
	err := db.Callback().Create().Before("gorm:create").Register("poison_one", func(tx *gorm.DB) {
		if n, ok := tx.Statement.Dest.(*models.Notification); ok && n.UserID == poisoned {
			tx.AddError(errors.New("injected write failure"))
		}
	})
	require.NoError(t, err)

	f := NewFanout(db, &fixedDirectory{ids: roster}, 4)
	err = f.NotifyModerators(context.Background(), "Alert", "M", models.NotificationModerationAlert, nil)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 2, count)

	var missing int64
	db.Model(&models.Notification{}).Where("user_id = ?", poisoned).Count(&missing)
	assert.Zero(t, missing)
}

func TestGormDirectoryListModerators(t *testing.T) {
	db := testDB(t)

	mod := models.User{ID: uuid.New(), Email: "mod@example.com", Role: "moderator"}
	admin := models.User{ID: uuid.New(), Email: "admin@example.com", Role: "admin"}
	regular := models.User{ID: uuid.New(), Email: "user@example.com", Role: "user"}
	require.NoError(t, db.Create(&mod).Error)
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&regular).Error)

	ids, err := NewGormDirectory(db).ListModerators(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{mod.ID, admin.ID}, ids)
}
