package models

import "time"

// Friendship statuses.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a directed edge created by UserID and accepted by FriendID.
// Accepted edges count in both directions for the friends leaderboard scope.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_friend_pair,unique;not null" json:"user_id"`
	FriendID  uint      `gorm:"index:idx_friend_pair,unique;index;not null" json:"friend_id"`
	Status    string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
