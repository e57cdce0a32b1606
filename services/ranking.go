package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// Errors surfaced to controllers; mapped onto 404 responses there.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
)

const (
	// DefaultLeaderboardLimit caps a page when the caller sends none.
	DefaultLeaderboardLimit = 50
	// DefaultNearbyRange yields a window of 2*range+1 entries around a user.
	DefaultNearbyRange = 2

	notableRankCutoff = 10
)

// Cache is the minimal cache surface the ranking engine needs. A nil Cache
// disables caching entirely, which is how tests run.
type Cache interface {
	GetBytes(key string) ([]byte, bool)
	SetJSON(key string, v interface{}, ttl time.Duration)
}

// RankingEngine produces deterministic, paginated leaderboard views. It never
// mutates shared state; concurrent requests may recompute the same cache
// entry redundantly, which is accepted since the computation is idempotent.
type RankingEngine struct {
	db       *gorm.DB
	streaks  *StreakEngine
	cache    Cache
	cacheTTL time.Duration
	// Now supplies the engine clock; replaced in tests.
	Now func() time.Time
}

// NewRankingEngine creates a ranking engine. cache may be nil.
func NewRankingEngine(db *gorm.DB, streaks *StreakEngine, cache Cache, cacheTTL time.Duration) *RankingEngine {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &RankingEngine{db: db, streaks: streaks, cache: cache, cacheTTL: cacheTTL, Now: time.Now}
}

// BuildLeaderboard returns one page of the ranked list for a scope, metric
// and period. Global and organization pages are cache-backed; friends pages
// are always computed fresh since the candidate set is small and personal.
func (r *RankingEngine) BuildLeaderboard(scope Scope, scopeID uint, metric Metric, period Period, limit, offset int) (*models.Leaderboard, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if offset < 0 {
		offset = 0
	}

	cacheable := r.cache != nil && scope != ScopeFriends
	cacheKey := fmt.Sprintf("cache:leaderboard:%s:%d:%s:%s:%d:%d", scope, scopeID, metric, period, limit, offset)
	if cacheable {
		if b, ok := r.cache.GetBytes(cacheKey); ok {
			var cached models.Leaderboard
			if err := json.Unmarshal(b, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	ranked, err := r.rankedList(scope, scopeID, metric, period)
	if err != nil {
		return nil, err
	}

	board := &models.Leaderboard{
		Scope:      string(scope),
		Metric:     string(metric),
		Period:     string(period),
		Rankings:   pageOf(ranked, limit, offset),
		TotalUsers: len(ranked),
	}

	if cacheable {
		r.cache.SetJSON(cacheKey, board, r.cacheTTL)
	}
	return board, nil
}

// GetUserRank locates one user in the ranked list and returns their absolute
// rank plus a nearby window. Always computed fresh, never from the page
// cache: the list a user sees may lag this by up to the cache TTL, which is
// an accepted divergence, not a bug.
func (r *RankingEngine) GetUserRank(userID uint, scope Scope, scopeID uint, metric Metric, period Period, nearbyRange int) (*models.UserRank, error) {
	if nearbyRange <= 0 {
		nearbyRange = DefaultNearbyRange
	}

	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ranked, err := r.rankedList(scope, scopeID, metric, period)
	if err != nil {
		return nil, err
	}

	result := &models.UserRank{
		UserID:      userID,
		TotalUsers:  len(ranked),
		NearbyUsers: []models.LeaderboardEntry{},
	}

	idx := -1
	for i := range ranked {
		if ranked[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Zero-value users are filtered out: no rank, not rank zero or last.
		return result, nil
	}

	rank := idx + 1
	result.Rank = &rank
	result.Value = ranked[idx].Value

	lo := idx - nearbyRange
	if lo < 0 {
		lo = 0
	}
	hi := idx + nearbyRange + 1
	if hi > len(ranked) {
		hi = len(ranked)
	}
	result.NearbyUsers = append(result.NearbyUsers, ranked[lo:hi]...)

	return result, nil
}

// rankedList computes the full filtered, sorted, rank-annotated list for a
// scope. Tie-break is explicit: value descending, then user id ascending, so
// equal-value users never flicker rank across calls.
func (r *RankingEngine) rankedList(scope Scope, scopeID uint, metric Metric, period Period) ([]models.LeaderboardEntry, error) {
	candidates, err := r.candidates(scope, scopeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(candidates))
	for i := range candidates {
		ids = append(ids, candidates[i].ID)
	}

	values, err := metricValues(r.db, r.streaks, ids, metric, period, r.Now())
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(candidates))
	for i := range candidates {
		u := &candidates[i]
		value := values[u.ID]
		if value <= 0 {
			continue // zero-activity users never appear on a leaderboard
		}
		name := u.DisplayName
		if name == "" {
			name = u.Username
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:      u.ID,
			DisplayName: name,
			AvatarURL:   u.AvatarURL,
			Value:       value,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Badge = badgeForRank(i + 1)
	}
	return entries, nil
}

// candidates selects the population a scope ranks over.
func (r *RankingEngine) candidates(scope Scope, scopeID uint) ([]models.User, error) {
	var users []models.User
	switch scope {
	case ScopeOrganization:
		var org models.Organization
		if err := r.db.First(&org, scopeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrganizationNotFound
			}
			return nil, err
		}
		if err := r.db.Where("organization_id = ?", scopeID).Find(&users).Error; err != nil {
			return nil, err
		}
	case ScopeFriends:
		ids, err := r.friendIDs(scopeID)
		if err != nil {
			return nil, err
		}
		if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	default:
		if err := r.db.Find(&users).Error; err != nil {
			return nil, err
		}
	}
	return users, nil
}

// friendIDs returns the user's accepted friend set plus the user themself.
func (r *RankingEngine) friendIDs(userID uint) ([]uint, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var edges []models.Friendship
	if err := r.db.
		Where("status = ? AND (user_id = ? OR friend_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&edges).Error; err != nil {
		return nil, err
	}

	ids := []uint{userID}
	for _, e := range edges {
		if e.UserID == userID {
			ids = append(ids, e.FriendID)
		} else {
			ids = append(ids, e.UserID)
		}
	}
	return utils.UniqueUint(ids), nil
}

func pageOf(entries []models.LeaderboardEntry, limit, offset int) []models.LeaderboardEntry {
	if offset >= len(entries) {
		return []models.LeaderboardEntry{}
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

func badgeForRank(rank int) string {
	switch {
	case rank == 1:
		return models.BadgeGold
	case rank == 2:
		return models.BadgeSilver
	case rank == 3:
		return models.BadgeBronze
	case rank <= notableRankCutoff:
		return models.BadgeNotable
	default:
		return ""
	}
}
