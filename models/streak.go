package models

import "time"

// StreakRecord keeps a user's all-time longest streaks, one row per user.
// Each longest_* column only ever moves up; the upsert in the streak engine
// raises it to max(stored, computed) in a single conditional update.
type StreakRecord struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	UserID                 uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	LongestWorkoutStreak   int       `gorm:"not null;default:0" json:"longest_workout_streak"`
	LongestNutritionStreak int       `gorm:"not null;default:0" json:"longest_nutrition_streak"`
	LongestOverallStreak   int       `gorm:"not null;default:0" json:"longest_overall_streak"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
