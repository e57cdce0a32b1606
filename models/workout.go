package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutSession is a single logged workout. PerformedAt carries the calendar
// day the session counts toward; only completed sessions feed streaks and
// leaderboards.
type WorkoutSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PublicID        string    `gorm:"size:36;uniqueIndex" json:"public_id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	ActivityType    string    `gorm:"size:32;not null" json:"activity_type"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	CaloriesBurned  int       `gorm:"not null;default:0" json:"calories_burned"`
	// No column default here: gorm skips zero-value fields when one is set,
	// which would turn Completed=false into true at insert.
	Completed       bool      `gorm:"not null" json:"completed"`
	Notes           string    `gorm:"size:512" json:"notes"`
	PerformedAt     time.Time `gorm:"index;not null" json:"performed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate assigns a public identifier used in API URLs.
func (w *WorkoutSession) BeforeCreate(tx *gorm.DB) error {
	if w.PublicID == "" {
		w.PublicID = uuid.NewString()
	}
	return nil
}
