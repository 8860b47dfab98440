package moderation

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/classifier"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ContentItem{},
		&models.Flag{},
		&models.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) uuid.UUID {
	t.Helper()
	u := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func seedContent(t *testing.T, db *gorm.DB, authorID uuid.UUID, body string, risk models.RiskLevel) *models.ContentItem {
	t.Helper()
	c := models.ContentItem{
		ID:               uuid.New(),
		Kind:             models.KindPost,
		AuthorID:         authorID,
		Body:             body,
		Language:         "en",
		RiskLevel:        risk,
		ModerationStatus: models.ModerationApproved,
	}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestFlagStoreTryCreate(t *testing.T) {
	db := testDB(t)
	store := NewFlagStore(db)

	reporter := seedUser(t, db, "user")
	author := seedUser(t, db, "user")
	content := seedContent(t, db, author, "some post", models.RiskNone)

	flag, err := store.TryCreate(reporter, content.ID, "spam")
	require.NoError(t, err)
	assert.Equal(t, models.AIReviewReviewing, flag.AIReviewStatus)
	assert.Equal(t, "spam", flag.Reason)

	// same pair again trips the probe
	_, err = store.TryCreate(reporter, content.ID, "spam again")
	assert.ErrorIs(t, err, ErrDuplicateFlag)

	// a different reporter is fine
	other := seedUser(t, db, "user")
	_, err = store.TryCreate(other, content.ID, "also spam")
	assert.NoError(t, err)
}

func TestFlagStoreDuplicateViaUniqueIndex(t *testing.T) {
	db := testDB(t)
	store := NewFlagStore(db)

	reporter := seedUser(t, db, "user")
	content := seedContent(t, db, seedUser(t, db, "user"), "body", models.RiskNone)

	// insert behind the probe's back to force the unique-index path
	require.NoError(t, db.Create(&models.Flag{
		ID:             uuid.New(),
		ReporterID:     reporter,
		ContentID:      content.ID,
		Reason:         "sneaky",
		AIReviewStatus: models.AIReviewReviewing,
	}).Error)

	err := db.Create(&models.Flag{
		ID:             uuid.New(),
		ReporterID:     reporter,
		ContentID:      content.ID,
		Reason:         "duplicate",
		AIReviewStatus: models.AIReviewReviewing,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = store.TryCreate(reporter, content.ID, "duplicate")
	assert.ErrorIs(t, err, ErrDuplicateFlag)
}

func TestFlagStoreConcurrentTryCreate(t *testing.T) {
	db := testDB(t)
	store := NewFlagStore(db)

	reporter := seedUser(t, db, "user")
	content := seedContent(t, db, seedUser(t, db, "user"), "body", models.RiskNone)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.TryCreate(reporter, content.ID, "race")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateFlag)
		}
	}
	assert.Equal(t, 1, successes)

	var count int64
	db.Model(&models.Flag{}).Where("reporter_id = ? AND content_id = ?", reporter, content.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFlagStoreComplete(t *testing.T) {
	db := testDB(t)
	store := NewFlagStore(db)

	reporter := seedUser(t, db, "user")
	content := seedContent(t, db, seedUser(t, db, "user"), "body", models.RiskNone)

	flag, err := store.TryCreate(reporter, content.ID, "harassment")
	require.NoError(t, err)

	v := classifier.Verdict{
		ViolatesPolicy:    true,
		ViolationTypes:    []string{"harassment"},
		Severity:          classifier.SeverityHigh,
		Confidence:        0.87,
		Explanation:       "targeted insults",
		RecommendedAction: classifier.ActionHide,
	}
	require.NoError(t, store.Complete(flag, v))

	var stored models.Flag
	require.NoError(t, db.First(&stored, "id = ?", flag.ID).Error)
	assert.Equal(t, models.AIReviewCompleted, stored.AIReviewStatus)
	require.NotNil(t, stored.AIConfidence)
	assert.InDelta(t, 0.87, *stored.AIConfidence, 0.001)
	assert.NotNil(t, stored.AIReviewedAt)

	var snapshot classifier.Verdict
	require.NoError(t, json.Unmarshal(stored.AIReviewResult, &snapshot))
	assert.Equal(t, v, snapshot)
}

func TestFlagStoreList(t *testing.T) {
	db := testDB(t)
	store := NewFlagStore(db)

	content := seedContent(t, db, seedUser(t, db, "user"), "body", models.RiskNone)
	for i := 0; i < 3; i++ {
		_, err := store.TryCreate(seedUser(t, db, "user"), content.ID, "spam")
		require.NoError(t, err)
	}

	flags, total, err := store.List("", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, flags, 3)

	flags, total, err = store.List(string(models.AIReviewCompleted), 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, flags)

	flags, total, err = store.List(string(models.AIReviewReviewing), 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, flags, 2)
}
