package models

import "time"

// Achievement categories; streak achievements are unlocked by the streak engine.
const (
	AchievementCategoryWorkout   = "workout"
	AchievementCategoryNutrition = "nutrition"
	AchievementCategoryOverall   = "overall"
)

// Achievement is a row of the seeded achievement catalog.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Category    string    `gorm:"size:16;not null" json:"category"`
	Threshold   int       `gorm:"not null" json:"threshold"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement marks an unlocked achievement. The composite unique index
// makes the unlock insert idempotent under concurrent requests.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"user_id"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"index;not null" json:"unlocked_at"`
}

// AchievementWithStatus decorates a catalog entry with the viewer's unlock state.
type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
