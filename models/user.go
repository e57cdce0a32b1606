package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles assignable to a user.
const (
	RoleMember = "member"
	RoleCoach  = "coach"
)

// User represents a platform member or coach. Passwords are stored as bcrypt hashes only.
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"size:64;not null" json:"username"`
	Email          string `gorm:"size:255" json:"email"`
	PasswordHash   string `gorm:"size:255" json:"-"`
	DisplayName    string `gorm:"size:64" json:"display_name"`
	Bio            string `gorm:"size:255" json:"bio"`
	AvatarURL      string `gorm:"size:512" json:"avatar_url"`
	Role           string `gorm:"size:16;default:'member'" json:"role"`
	OrganizationID *uint  `gorm:"index" json:"organization_id"`
	// BodyPoints mirrors the sum of the user's points ledger. It is written in
	// the same transaction as every ledger insert; the ledger remains the
	// source of truth for windowed sums.
	BodyPoints int            `gorm:"default:0" json:"body_points"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Comments   []Comment      `json:"-"`
	Posts      []Post         `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
