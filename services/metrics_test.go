package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

func TestParseMetricLenient(t *testing.T) {
	assert.Equal(t, MetricWorkouts, ParseMetric("workouts"))
	assert.Equal(t, MetricCaloriesBurned, ParseMetric("calories_burned"))
	assert.Equal(t, MetricPoints, ParseMetric(""))
	assert.Equal(t, MetricPoints, ParseMetric("bogus"))
	assert.Equal(t, MetricPoints, ParseMetric("POINTS"), "matching is case sensitive")
}

func TestParsePeriodLenient(t *testing.T) {
	assert.Equal(t, PeriodWeek, ParsePeriod("week"))
	assert.Equal(t, PeriodAllTime, ParsePeriod(""))
	assert.Equal(t, PeriodAllTime, ParsePeriod("fortnight"))
}

func TestParseScopeLenient(t *testing.T) {
	assert.Equal(t, ScopeFriends, ParseScope("friends"))
	assert.Equal(t, ScopeGlobal, ParseScope(""))
	assert.Equal(t, ScopeGlobal, ParseScope("galaxy"))
}

func TestPeriodStartWindows(t *testing.T) {
	start, ok := periodStart(PeriodWeek, testNow)
	require.True(t, ok)
	assert.Equal(t, testNow.AddDate(0, 0, -7), start)

	start, ok = periodStart(PeriodQuarter, testNow)
	require.True(t, ok)
	assert.Equal(t, testNow.AddDate(0, -3, 0), start)

	_, ok = periodStart(PeriodAllTime, testNow)
	assert.False(t, ok)
}

func TestPointsMetricWindowedUsesLedger(t *testing.T) {
	db := newTestDB(t)
	streaks := newTestStreakEngine(db)
	user := createTestUser(t, db, "ana")

	// Old entry outside the week window, recent one inside.
	old := models.PointsEntry{UserID: user.ID, Points: 100, Reason: models.PointsReasonWorkoutLogged, CreatedAt: daysAgo(30)}
	require.NoError(t, db.Create(&old).Error)
	recent := models.PointsEntry{UserID: user.ID, Points: 25, Reason: models.PointsReasonWorkoutLogged, CreatedAt: daysAgo(2)}
	require.NoError(t, db.Create(&recent).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("body_points", 125).Error)

	week, err := metricValues(db, streaks, []uint{user.ID}, MetricPoints, PeriodWeek, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(25), week[user.ID])

	allTime, err := metricValues(db, streaks, []uint{user.ID}, MetricPoints, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(125), allTime[user.ID])
}

func TestWorkoutCountMetric(t *testing.T) {
	db := newTestDB(t)
	streaks := newTestStreakEngine(db)
	user := createTestUser(t, db, "ben")

	addWorkout(t, db, user.ID, daysAgo(1), true)
	addWorkout(t, db, user.ID, daysAgo(2), true)
	addWorkout(t, db, user.ID, daysAgo(3), false) // incomplete, excluded
	addWorkout(t, db, user.ID, daysAgo(40), true) // outside month window

	month, err := metricValues(db, streaks, []uint{user.ID}, MetricWorkouts, PeriodMonth, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(2), month[user.ID])

	allTime, err := metricValues(db, streaks, []uint{user.ID}, MetricWorkouts, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(3), allTime[user.ID])
}

func TestActiveMinutesAndCaloriesMetrics(t *testing.T) {
	db := newTestDB(t)
	streaks := newTestStreakEngine(db)
	user := createTestUser(t, db, "cam")

	addWorkout(t, db, user.ID, daysAgo(1), true) // 45 min, 300 kcal
	addWorkout(t, db, user.ID, daysAgo(2), true)

	minutes, err := metricValues(db, streaks, []uint{user.ID}, MetricActiveMinutes, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(90), minutes[user.ID])

	calories, err := metricValues(db, streaks, []uint{user.ID}, MetricCaloriesBurned, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(600), calories[user.ID])
}

func TestAchievementsMetricCountsByUnlockTime(t *testing.T) {
	db := newTestDB(t)
	streaks := newTestStreakEngine(db)
	require.NoError(t, SeedAchievements(db))
	user := createTestUser(t, db, "drew")

	var catalog []models.Achievement
	require.NoError(t, db.Limit(2).Find(&catalog).Error)
	require.Len(t, catalog, 2)

	require.NoError(t, db.Create(&models.UserAchievement{
		UserID: user.ID, AchievementID: catalog[0].ID, UnlockedAt: daysAgo(2),
	}).Error)
	require.NoError(t, db.Create(&models.UserAchievement{
		UserID: user.ID, AchievementID: catalog[1].ID, UnlockedAt: daysAgo(60),
	}).Error)

	week, err := metricValues(db, streaks, []uint{user.ID}, MetricAchievements, PeriodWeek, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(1), week[user.ID])

	allTime, err := metricValues(db, streaks, []uint{user.ID}, MetricAchievements, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Equal(t, float64(2), allTime[user.ID])
}

func TestMetricValuesEmptyCandidates(t *testing.T) {
	db := newTestDB(t)
	streaks := newTestStreakEngine(db)

	got, err := metricValues(db, streaks, nil, MetricPoints, PeriodAllTime, testNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}
