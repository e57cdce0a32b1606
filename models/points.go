package models

import "time"

// Reasons recorded on points ledger entries.
const (
	PointsReasonWorkoutLogged     = "workout_logged"
	PointsReasonMealLogged        = "meal_logged"
	PointsReasonAchievementUnlock = "achievement_unlocked"
)

// PointsEntry is one append-only row in the body-points ledger.
type PointsEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Points    int       `gorm:"not null" json:"points"`
	Reason    string    `gorm:"size:64;not null" json:"reason"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
