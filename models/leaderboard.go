package models

// Badges annotated onto leaderboard entries by absolute rank.
const (
	BadgeGold    = "gold"
	BadgeSilver  = "silver"
	BadgeBronze  = "bronze"
	BadgeNotable = "notable"
)

// LeaderboardEntry is one ranked row. Rank is the 1-based absolute position
// in the full filtered list, not the position within the returned page.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      uint    `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	Value       float64 `json:"value"`
	Badge       string  `json:"badge,omitempty"`
}

// Leaderboard is one page of rankings plus the size of the full filtered list.
type Leaderboard struct {
	Scope      string             `json:"scope"`
	Metric     string             `json:"metric"`
	Period     string             `json:"period"`
	Rankings   []LeaderboardEntry `json:"rankings"`
	TotalUsers int                `json:"total_users"`
}

// UserRank reports a single user's position. Rank is nil when the user has no
// qualifying value for the metric (filtered out, not rank zero or last).
type UserRank struct {
	UserID      uint               `json:"user_id"`
	Rank        *int               `json:"rank,omitempty"`
	Value       float64            `json:"value"`
	TotalUsers  int                `json:"total_users"`
	NearbyUsers []LeaderboardEntry `json:"nearby_users"`
}
