package models

import "time"

// Meal types accepted by the nutrition log.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealLog is a single logged meal; LoggedAt carries the calendar day the
// entry counts toward for nutrition streaks.
type MealLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	MealType    string    `gorm:"size:16;not null" json:"meal_type"`
	Description string    `gorm:"size:255" json:"description"`
	Calories    int       `gorm:"not null;default:0" json:"calories"`
	LoggedAt    time.Time `gorm:"index;not null" json:"logged_at"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
