package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

// newTestDB opens a fresh in-memory database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.WorkoutSession{},
		&models.MealLog{},
		&models.StreakRecord{},
		&models.PointsEntry{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Friendship{},
		&models.Post{},
		&models.Comment{},
		&models.UploadedFile{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, DisplayName: username}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// fixedClock returns a deterministic engine clock.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// testNow is noon so that walking backwards a day at a time never crosses a
// DST boundary mid-day.
var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func addWorkout(t *testing.T, db *gorm.DB, userID uint, at time.Time, completed bool) {
	t.Helper()
	session := models.WorkoutSession{
		UserID:          userID,
		ActivityType:    "strength",
		DurationMinutes: 45,
		CaloriesBurned:  300,
		Completed:       completed,
		PerformedAt:     at,
	}
	require.NoError(t, db.Create(&session).Error)
}

func addMeal(t *testing.T, db *gorm.DB, userID uint, at time.Time) {
	t.Helper()
	meal := models.MealLog{
		UserID:   userID,
		MealType: models.MealLunch,
		Calories: 600,
		LoggedAt: at,
	}
	require.NoError(t, db.Create(&meal).Error)
}

func newTestStreakEngine(db *gorm.DB) *StreakEngine {
	e := NewStreakEngine(db, 10, 5)
	e.Now = fixedClock(testNow)
	return e
}
