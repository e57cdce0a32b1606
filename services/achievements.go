package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

// streakAchievementCatalog is the seeded set of streak-threshold achievements.
var streakAchievementCatalog = []models.Achievement{
	{Code: "workout_streak_7", Name: "One Week Strong", Description: "Complete workouts seven days in a row", Category: models.AchievementCategoryWorkout, Threshold: 7, Points: 50},
	{Code: "workout_streak_30", Name: "Iron Month", Description: "Complete workouts thirty days in a row", Category: models.AchievementCategoryWorkout, Threshold: 30, Points: 200},
	{Code: "workout_streak_100", Name: "Century Club", Description: "Complete workouts one hundred days in a row", Category: models.AchievementCategoryWorkout, Threshold: 100, Points: 1000},
	{Code: "nutrition_streak_7", Name: "Clean Week", Description: "Log meals seven days in a row", Category: models.AchievementCategoryNutrition, Threshold: 7, Points: 50},
	{Code: "nutrition_streak_30", Name: "Mindful Month", Description: "Log meals thirty days in a row", Category: models.AchievementCategoryNutrition, Threshold: 30, Points: 200},
	{Code: "nutrition_streak_100", Name: "Nutrition Master", Description: "Log meals one hundred days in a row", Category: models.AchievementCategoryNutrition, Threshold: 100, Points: 1000},
	{Code: "overall_streak_7", Name: "All-Round Week", Description: "Stay active seven days in a row", Category: models.AchievementCategoryOverall, Threshold: 7, Points: 100},
	{Code: "overall_streak_30", Name: "Lifestyle Change", Description: "Stay active thirty days in a row", Category: models.AchievementCategoryOverall, Threshold: 30, Points: 500},
}

// SeedAchievements inserts missing catalog rows; existing codes are left untouched.
func SeedAchievements(db *gorm.DB) error {
	for i := range streakAchievementCatalog {
		a := streakAchievementCatalog[i]
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}

// unlockStreakAchievements unlocks every newly satisfied streak threshold for
// the user. The unique (user_id, achievement_id) index plus OnConflict
// DoNothing makes each unlock happen exactly once; points are awarded only
// when the insert actually created a row.
func unlockStreakAchievements(db *gorm.DB, userID uint, s StreakSummary, now time.Time) error {
	var catalog []models.Achievement
	if err := db.Where("category IN ?", []string{
		models.AchievementCategoryWorkout,
		models.AchievementCategoryNutrition,
		models.AchievementCategoryOverall,
	}).Find(&catalog).Error; err != nil {
		return err
	}

	for _, a := range catalog {
		var current int
		switch a.Category {
		case models.AchievementCategoryWorkout:
			current = s.Workout
		case models.AchievementCategoryNutrition:
			current = s.Nutrition
		case models.AchievementCategoryOverall:
			current = s.Overall
		}
		if current < a.Threshold {
			continue
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue // already unlocked
		}
		if err := awardPoints(db, userID, a.Points, models.PointsReasonAchievementUnlock); err != nil {
			return err
		}
	}
	return nil
}

// awardPoints appends a ledger entry and raises the materialized body_points
// counter in the same transaction, so the two can never drift apart.
func awardPoints(db *gorm.DB, userID uint, points int, reason string) error {
	if points == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		entry := models.PointsEntry{UserID: userID, Points: points, Reason: reason}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("body_points", gorm.Expr("body_points + ?", points)).Error
	})
}

// AchievementsWithStatus returns the full catalog decorated with the user's
// unlock state, ordered by category then threshold.
func AchievementsWithStatus(db *gorm.DB, userID uint) ([]models.AchievementWithStatus, error) {
	var catalog []models.Achievement
	if err := db.Order("category, threshold").Find(&catalog).Error; err != nil {
		return nil, err
	}

	var unlocked []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return nil, err
	}
	unlockedAt := make(map[uint]time.Time, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	out := make([]models.AchievementWithStatus, 0, len(catalog))
	for _, a := range catalog {
		item := models.AchievementWithStatus{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			item.Unlocked = true
			t := at
			item.UnlockedAt = &t
		}
		out = append(out, item)
	}
	return out, nil
}
