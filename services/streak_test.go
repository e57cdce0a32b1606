package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

func TestComputeStreakConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)

	got := engine.ComputeStreak([]time.Time{daysAgo(0), daysAgo(1), daysAgo(2)})
	assert.Equal(t, 3, got)
}

func TestComputeStreakRequiresToday(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)

	// A run ending yesterday is already broken.
	got := engine.ComputeStreak([]time.Time{daysAgo(1), daysAgo(2), daysAgo(3)})
	assert.Equal(t, 0, got)
}

func TestComputeStreakGapBreaksRun(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)

	// Today and yesterday count; the gap at -2 cuts off the older days.
	got := engine.ComputeStreak([]time.Time{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4)})
	assert.Equal(t, 2, got)
}

func TestComputeStreakDuplicateSameDay(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)

	// Two logs on the same day count once.
	got := engine.ComputeStreak([]time.Time{daysAgo(0), daysAgo(0).Add(2 * time.Hour), daysAgo(1)})
	assert.Equal(t, 2, got)
}

func TestIncompleteWorkoutStoredAsIncomplete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lee")

	// A column default would make gorm skip the zero-value field on insert
	// and flip false to true; the flag must round-trip as written.
	addWorkout(t, db, user.ID, daysAgo(0), false)

	var stored models.WorkoutSession
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.False(t, stored.Completed)
}

func TestCategoryStreakIgnoresIncompleteWorkouts(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "casey")

	addWorkout(t, db, user.ID, daysAgo(0), true)
	addWorkout(t, db, user.ID, daysAgo(1), false) // abandoned session

	got, err := engine.ComputeCategoryStreak(user.ID, CategoryWorkout)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestOverallStreakUnionsCategories(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "jordan")

	// Workout today, meal yesterday: each category streak alone is short but
	// the union covers both days.
	addWorkout(t, db, user.ID, daysAgo(0), true)
	addMeal(t, db, user.ID, daysAgo(1))

	workout, err := engine.ComputeCategoryStreak(user.ID, CategoryWorkout)
	require.NoError(t, err)
	assert.Equal(t, 1, workout)

	nutrition, err := engine.ComputeCategoryStreak(user.ID, CategoryNutrition)
	require.NoError(t, err)
	assert.Equal(t, 0, nutrition)

	overall, err := engine.ComputeOverallStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, overall)
}

func TestRecordActivityReturnsSummary(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "alex")

	addWorkout(t, db, user.ID, daysAgo(0), true)
	addWorkout(t, db, user.ID, daysAgo(1), true)

	summary, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)
	assert.Equal(t, StreakSummary{Workout: 2, Nutrition: 0, Overall: 2}, summary)
}

func TestRecordActivityRecordsNeverDecrease(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "sam")

	for i := 0; i < 3; i++ {
		addWorkout(t, db, user.ID, daysAgo(i), true)
	}
	_, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	var record models.StreakRecord
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)
	assert.Equal(t, 3, record.LongestWorkoutStreak)
	assert.Equal(t, 3, record.LongestOverallStreak)

	// Wipe the history so the recomputed streak drops to 1; the stored record
	// must hold its high-water mark.
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.WorkoutSession{}).Error)
	addWorkout(t, db, user.ID, daysAgo(0), true)

	_, err = engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)
	assert.Equal(t, 3, record.LongestWorkoutStreak)

	var count int64
	require.NoError(t, db.Model(&models.StreakRecord{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one record row per user")
}

func TestRecordActivityUpdateStampsEngineClock(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "kim")

	addWorkout(t, db, user.ID, daysAgo(0), true)
	_, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	// Second report hits the conflict path; updated_at must come from the
	// engine clock, not the wall clock.
	_, err = engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	var record models.StreakRecord
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)
	assert.True(t, record.UpdatedAt.Equal(testNow), "got %v", record.UpdatedAt)
}

func TestBaseRewardOnlyFirstLogOfDay(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "riley")

	addWorkout(t, db, user.ID, daysAgo(0), true)
	_, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	var after models.User
	require.NoError(t, db.First(&after, user.ID).Error)
	assert.Equal(t, 10, after.BodyPoints)

	// Second workout on the same day: no second base reward.
	addWorkout(t, db, user.ID, daysAgo(0).Add(3*time.Hour), true)
	_, err = engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	require.NoError(t, db.First(&after, user.ID).Error)
	assert.Equal(t, 10, after.BodyPoints)

	var ledger int64
	require.NoError(t, db.Model(&models.PointsEntry{}).
		Where("user_id = ? AND reason = ?", user.ID, models.PointsReasonWorkoutLogged).
		Count(&ledger).Error)
	assert.EqualValues(t, 1, ledger)
}

func TestNutritionRewardUsesOwnAmount(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "drew")

	addMeal(t, db, user.ID, daysAgo(0))
	_, err := engine.RecordActivity(user.ID, CategoryNutrition, daysAgo(0))
	require.NoError(t, err)

	var after models.User
	require.NoError(t, db.First(&after, user.ID).Error)
	assert.Equal(t, 5, after.BodyPoints)
}

func TestStreakAchievementUnlockIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedAchievements(db))
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "morgan")

	for i := 0; i < 7; i++ {
		addWorkout(t, db, user.ID, daysAgo(i), true)
	}

	// Report twice; the unlock and its points must land exactly once.
	_, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)
	_, err = engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	var workoutSeven models.Achievement
	require.NoError(t, db.Where("code = ?", "workout_streak_7").First(&workoutSeven).Error)

	var unlocks int64
	require.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, workoutSeven.ID).
		Count(&unlocks).Error)
	assert.EqualValues(t, 1, unlocks)

	var achievementPoints int64
	require.NoError(t, db.Model(&models.PointsEntry{}).
		Where("user_id = ? AND reason = ?", user.ID, models.PointsReasonAchievementUnlock).
		Count(&achievementPoints).Error)
	// workout_streak_7 plus overall_streak_7.
	assert.EqualValues(t, 2, achievementPoints)
}

func TestSeedAchievementsIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedAchievements(db))
	require.NoError(t, SeedAchievements(db))

	var count int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&count).Error)
	assert.EqualValues(t, len(streakAchievementCatalog), count)
}

func TestAchievementsWithStatus(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedAchievements(db))
	engine := newTestStreakEngine(db)
	user := createTestUser(t, db, "quinn")

	for i := 0; i < 7; i++ {
		addWorkout(t, db, user.ID, daysAgo(i), true)
	}
	_, err := engine.RecordActivity(user.ID, CategoryWorkout, daysAgo(0))
	require.NoError(t, err)

	items, err := AchievementsWithStatus(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, len(streakAchievementCatalog))

	unlocked := map[string]bool{}
	for _, it := range items {
		if it.Unlocked {
			unlocked[it.Code] = true
			assert.NotNil(t, it.UnlockedAt)
		}
	}
	assert.True(t, unlocked["workout_streak_7"])
	assert.True(t, unlocked["overall_streak_7"])
	assert.False(t, unlocked["workout_streak_30"])
}

func TestOverallStreaksBatch(t *testing.T) {
	db := newTestDB(t)
	engine := newTestStreakEngine(db)
	a := createTestUser(t, db, "ana")
	b := createTestUser(t, db, "ben")
	c := createTestUser(t, db, "cam")

	addWorkout(t, db, a.ID, daysAgo(0), true)
	addWorkout(t, db, a.ID, daysAgo(1), true)
	addMeal(t, db, b.ID, daysAgo(0))
	// c has nothing logged.

	got, err := engine.OverallStreaks([]uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{a.ID: 2, b.ID: 1, c.ID: 0}, got)
}
