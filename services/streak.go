package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// Category of loggable activity feeding streaks.
type Category string

const (
	CategoryWorkout   Category = "workout"
	CategoryNutrition Category = "nutrition"
)

// StreakSummary is the triple of current streaks returned to callers after
// an activity is recorded.
type StreakSummary struct {
	Workout   int `json:"workout"`
	Nutrition int `json:"nutrition"`
	Overall   int `json:"overall"`
}

// StreakEngine turns per-category activity dates into consecutive-day streak
// counts and persists all-time highs. It is stateless; every call reads from
// the shared event store.
type StreakEngine struct {
	db *gorm.DB
	// Now supplies the engine clock; replaced in tests.
	Now func() time.Time
	// Base reward points for the first qualifying log of a day, per category.
	WorkoutReward   int
	NutritionReward int
}

// NewStreakEngine creates a streak engine on the given database.
func NewStreakEngine(db *gorm.DB, workoutReward, nutritionReward int) *StreakEngine {
	return &StreakEngine{
		db:              db,
		Now:             time.Now,
		WorkoutReward:   workoutReward,
		NutritionReward: nutritionReward,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ComputeStreak counts consecutive calendar days ending today with at least
// one activity date in the input. The streak breaks the moment the current
// day has no logged activity; there is no grace period for "yesterday only".
func (e *StreakEngine) ComputeStreak(dates []time.Time) int {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[dayKey(d)] = struct{}{}
	}
	return e.streakFromSet(set)
}

func (e *StreakEngine) streakFromSet(set map[string]struct{}) int {
	count := 0
	cursor := e.Now()
	for {
		if _, ok := set[dayKey(cursor)]; !ok {
			return count
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// ComputeCategoryStreak gathers the user's distinct activity dates for one
// category and computes the current streak.
func (e *StreakEngine) ComputeCategoryStreak(userID uint, category Category) (int, error) {
	dates, err := e.categoryDates(userID, category)
	if err != nil {
		return 0, err
	}
	return e.ComputeStreak(dates), nil
}

// ComputeOverallStreak unions both category date sets; a day counts when
// either category has activity.
func (e *StreakEngine) ComputeOverallStreak(userID uint) (int, error) {
	workout, err := e.categoryDates(userID, CategoryWorkout)
	if err != nil {
		return 0, err
	}
	nutrition, err := e.categoryDates(userID, CategoryNutrition)
	if err != nil {
		return 0, err
	}
	return e.ComputeStreak(append(workout, nutrition...)), nil
}

func (e *StreakEngine) categoryDates(userID uint, category Category) ([]time.Time, error) {
	var dates []time.Time
	var err error
	switch category {
	case CategoryNutrition:
		err = e.db.Model(&models.MealLog{}).
			Where("user_id = ?", userID).
			Pluck("logged_at", &dates).Error
	default:
		err = e.db.Model(&models.WorkoutSession{}).
			Where("user_id = ? AND completed = ?", userID, true).
			Pluck("performed_at", &dates).Error
	}
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// RecordActivity recomputes the user's streaks after an activity event was
// persisted, raises the stored record highs, and runs the best-effort reward
// phase. Reward failures are logged and never abort the streak result: the
// streak numbers stay authoritative.
func (e *StreakEngine) RecordActivity(userID uint, category Category, day time.Time) (StreakSummary, error) {
	workout, err := e.ComputeCategoryStreak(userID, CategoryWorkout)
	if err != nil {
		return StreakSummary{}, err
	}
	nutrition, err := e.ComputeCategoryStreak(userID, CategoryNutrition)
	if err != nil {
		return StreakSummary{}, err
	}
	overall, err := e.ComputeOverallStreak(userID)
	if err != nil {
		return StreakSummary{}, err
	}
	summary := StreakSummary{Workout: workout, Nutrition: nutrition, Overall: overall}

	if err := e.raiseRecords(userID, summary); err != nil {
		return StreakSummary{}, err
	}

	// Best-effort reward phase: authoritative streaks above, rewards below.
	e.awardBaseReward(userID, category, day)
	if err := unlockStreakAchievements(e.db, userID, summary, e.Now()); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("achievement unlock failed user=%d err=%v", userID, err)
	}

	return summary, nil
}

// raiseRecords upserts the user's StreakRecord, raising each longest_* column
// to max(stored, computed) inside a single conditional update so concurrent
// reports from two devices cannot lose an update.
func (e *StreakEngine) raiseRecords(userID uint, s StreakSummary) error {
	record := models.StreakRecord{
		UserID:                 userID,
		LongestWorkoutStreak:   s.Workout,
		LongestNutritionStreak: s.Nutrition,
		LongestOverallStreak:   s.Overall,
	}
	return e.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"longest_workout_streak":   gorm.Expr("CASE WHEN longest_workout_streak > ? THEN longest_workout_streak ELSE ? END", s.Workout, s.Workout),
			"longest_nutrition_streak": gorm.Expr("CASE WHEN longest_nutrition_streak > ? THEN longest_nutrition_streak ELSE ? END", s.Nutrition, s.Nutrition),
			"longest_overall_streak":   gorm.Expr("CASE WHEN longest_overall_streak > ? THEN longest_overall_streak ELSE ? END", s.Overall, s.Overall),
			"updated_at":               e.Now(),
		}),
	}).Create(&record).Error
}

// awardBaseReward grants the configured activity reward once per day per
// category: only the first qualifying log of the day earns it.
func (e *StreakEngine) awardBaseReward(userID uint, category Category, day time.Time) {
	points := e.WorkoutReward
	reason := models.PointsReasonWorkoutLogged
	if category == CategoryNutrition {
		points = e.NutritionReward
		reason = models.PointsReasonMealLogged
	}
	if points <= 0 {
		return
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	nextDay := dayStart.AddDate(0, 0, 1)

	var count int64
	var err error
	if category == CategoryNutrition {
		err = e.db.Model(&models.MealLog{}).
			Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, dayStart, nextDay).
			Count(&count).Error
	} else {
		err = e.db.Model(&models.WorkoutSession{}).
			Where("user_id = ? AND completed = ? AND performed_at >= ? AND performed_at < ?", userID, true, dayStart, nextDay).
			Count(&count).Error
	}
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("base reward count failed user=%d err=%v", userID, err)
		}
		return
	}
	if count != 1 {
		return
	}

	if err := awardPoints(e.db, userID, points, reason); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("base reward award failed user=%d err=%v", userID, err)
	}
}

// OverallStreaks computes the current overall streak for each user in one
// pass over both event tables; used by the streak leaderboard metric.
func (e *StreakEngine) OverallStreaks(userIDs []uint) (map[uint]int, error) {
	if len(userIDs) == 0 {
		return map[uint]int{}, nil
	}

	type eventRow struct {
		UserID uint      `gorm:"column:user_id"`
		Day    time.Time `gorm:"column:day"`
	}

	daysByUser := make(map[uint]map[string]struct{}, len(userIDs))
	collect := func(rows []eventRow) {
		for _, r := range rows {
			set, ok := daysByUser[r.UserID]
			if !ok {
				set = map[string]struct{}{}
				daysByUser[r.UserID] = set
			}
			set[dayKey(r.Day)] = struct{}{}
		}
	}

	var workoutRows []eventRow
	if err := e.db.Model(&models.WorkoutSession{}).
		Select("user_id, performed_at AS day").
		Where("user_id IN ? AND completed = ?", userIDs, true).
		Scan(&workoutRows).Error; err != nil {
		return nil, err
	}
	collect(workoutRows)

	var mealRows []eventRow
	if err := e.db.Model(&models.MealLog{}).
		Select("user_id, logged_at AS day").
		Where("user_id IN ?", userIDs).
		Scan(&mealRows).Error; err != nil {
		return nil, err
	}
	collect(mealRows)

	out := make(map[uint]int, len(userIDs))
	for _, id := range userIDs {
		out[id] = e.streakFromSet(daysByUser[id])
	}
	return out, nil
}
