package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

func newTestRankingEngine(db *gorm.DB, cache Cache) *RankingEngine {
	engine := NewRankingEngine(db, newTestStreakEngine(db), cache, time.Minute)
	engine.Now = fixedClock(testNow)
	return engine
}

func givePoints(t *testing.T, db *gorm.DB, userID uint, points int) {
	t.Helper()
	require.NoError(t, awardPoints(db, userID, points, models.PointsReasonWorkoutLogged))
}

func TestBuildLeaderboardOrdersByValueDesc(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	a := createTestUser(t, db, "ana")
	b := createTestUser(t, db, "ben")
	c := createTestUser(t, db, "cam")
	givePoints(t, db, a.ID, 30)
	givePoints(t, db, b.ID, 90)
	givePoints(t, db, c.ID, 60)

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 3)
	assert.Equal(t, 3, board.TotalUsers)
	assert.Equal(t, b.ID, board.Rankings[0].UserID)
	assert.Equal(t, c.ID, board.Rankings[1].UserID)
	assert.Equal(t, a.ID, board.Rankings[2].UserID)
	assert.Equal(t, 1, board.Rankings[0].Rank)
	assert.Equal(t, 2, board.Rankings[1].Rank)
	assert.Equal(t, 3, board.Rankings[2].Rank)
}

func TestBuildLeaderboardTieBreaksByUserID(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	a := createTestUser(t, db, "ana")
	b := createTestUser(t, db, "ben")
	givePoints(t, db, a.ID, 50)
	givePoints(t, db, b.ID, 50)

	// Equal values: the lower user id wins, every time.
	for i := 0; i < 3; i++ {
		board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
		require.NoError(t, err)
		require.Len(t, board.Rankings, 2)
		assert.Equal(t, a.ID, board.Rankings[0].UserID)
		assert.Equal(t, b.ID, board.Rankings[1].UserID)
	}
}

func TestBuildLeaderboardFiltersZeroValueUsers(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	a := createTestUser(t, db, "ana")
	createTestUser(t, db, "idle")
	givePoints(t, db, a.ID, 10)

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 1)
	assert.Equal(t, 1, board.TotalUsers)
	assert.Equal(t, a.ID, board.Rankings[0].UserID)
}

func TestBuildLeaderboardPaginationKeepsAbsoluteRank(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	users := make([]models.User, 0, 5)
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5"} {
		users = append(users, createTestUser(t, db, name))
	}
	for i, u := range users {
		givePoints(t, db, u.ID, 100-10*i) // u1 highest
	}

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 2, 2)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 2)
	assert.Equal(t, 5, board.TotalUsers)
	assert.Equal(t, 3, board.Rankings[0].Rank)
	assert.Equal(t, 4, board.Rankings[1].Rank)
	assert.Equal(t, users[2].ID, board.Rankings[0].UserID)
	assert.Equal(t, users[3].ID, board.Rankings[1].UserID)
}

func TestBuildLeaderboardOffsetPastEnd(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	a := createTestUser(t, db, "ana")
	givePoints(t, db, a.ID, 10)

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, board.Rankings)
	assert.Equal(t, 1, board.TotalUsers)
}

func TestBadgeAssignment(t *testing.T) {
	assert.Equal(t, models.BadgeGold, badgeForRank(1))
	assert.Equal(t, models.BadgeSilver, badgeForRank(2))
	assert.Equal(t, models.BadgeBronze, badgeForRank(3))
	assert.Equal(t, models.BadgeNotable, badgeForRank(4))
	assert.Equal(t, models.BadgeNotable, badgeForRank(10))
	assert.Equal(t, "", badgeForRank(11))
}

func TestOrganizationScope(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	org := models.Organization{Name: "Iron Gym", Slug: "iron-gym"}
	require.NoError(t, db.Create(&org).Error)

	inside := createTestUser(t, db, "inside")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inside.ID).
		Update("organization_id", org.ID).Error)
	outside := createTestUser(t, db, "outside")

	givePoints(t, db, inside.ID, 10)
	givePoints(t, db, outside.ID, 99)

	board, err := engine.BuildLeaderboard(ScopeOrganization, org.ID, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 1)
	assert.Equal(t, inside.ID, board.Rankings[0].UserID)
}

func TestOrganizationScopeUnknownOrg(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	_, err := engine.BuildLeaderboard(ScopeOrganization, 999, MetricPoints, PeriodAllTime, 50, 0)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestFriendsScopeIncludesSelfAndAcceptedOnly(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	me := createTestUser(t, db, "me")
	accepted := createTestUser(t, db, "accepted")
	pending := createTestUser(t, db, "pending")
	inbound := createTestUser(t, db, "inbound")
	stranger := createTestUser(t, db, "stranger")

	require.NoError(t, db.Create(&models.Friendship{UserID: me.ID, FriendID: accepted.ID, Status: models.FriendshipAccepted}).Error)
	require.NoError(t, db.Create(&models.Friendship{UserID: me.ID, FriendID: pending.ID, Status: models.FriendshipPending}).Error)
	require.NoError(t, db.Create(&models.Friendship{UserID: inbound.ID, FriendID: me.ID, Status: models.FriendshipAccepted}).Error)

	for _, u := range []models.User{me, accepted, pending, inbound, stranger} {
		givePoints(t, db, u.ID, 10)
	}

	board, err := engine.BuildLeaderboard(ScopeFriends, me.ID, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)

	got := map[uint]bool{}
	for _, e := range board.Rankings {
		got[e.UserID] = true
	}
	assert.True(t, got[me.ID])
	assert.True(t, got[accepted.ID])
	assert.True(t, got[inbound.ID], "accepted edges count in both directions")
	assert.False(t, got[pending.ID])
	assert.False(t, got[stranger.ID])
}

func TestGetUserRankWithNearbyWindow(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	users := make([]models.User, 0, 6)
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		users = append(users, createTestUser(t, db, name))
	}
	for i, u := range users {
		givePoints(t, db, u.ID, 60-10*i)
	}

	// u4 sits at rank 4; range 1 yields ranks 3..5.
	rank, err := engine.GetUserRank(users[3].ID, ScopeGlobal, 0, MetricPoints, PeriodAllTime, 1)
	require.NoError(t, err)
	require.NotNil(t, rank.Rank)
	assert.Equal(t, 4, *rank.Rank)
	assert.Equal(t, float64(30), rank.Value)
	assert.Equal(t, 6, rank.TotalUsers)
	require.Len(t, rank.NearbyUsers, 3)
	assert.Equal(t, 3, rank.NearbyUsers[0].Rank)
	assert.Equal(t, 5, rank.NearbyUsers[2].Rank)
}

func TestGetUserRankWindowClippedAtTop(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	top := createTestUser(t, db, "top")
	second := createTestUser(t, db, "second")
	givePoints(t, db, top.ID, 100)
	givePoints(t, db, second.ID, 50)

	rank, err := engine.GetUserRank(top.ID, ScopeGlobal, 0, MetricPoints, PeriodAllTime, 2)
	require.NoError(t, err)
	require.NotNil(t, rank.Rank)
	assert.Equal(t, 1, *rank.Rank)
	require.Len(t, rank.NearbyUsers, 2)
	assert.Equal(t, 1, rank.NearbyUsers[0].Rank)
}

func TestGetUserRankZeroValueUserHasNoRank(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	active := createTestUser(t, db, "active")
	idle := createTestUser(t, db, "idle")
	givePoints(t, db, active.ID, 10)

	rank, err := engine.GetUserRank(idle.ID, ScopeGlobal, 0, MetricPoints, PeriodAllTime, 2)
	require.NoError(t, err)
	assert.Nil(t, rank.Rank)
	assert.Equal(t, float64(0), rank.Value)
	assert.Equal(t, 1, rank.TotalUsers)
	assert.Empty(t, rank.NearbyUsers)
}

func TestGetUserRankUnknownUser(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	_, err := engine.GetUserRank(404, ScopeGlobal, 0, MetricPoints, PeriodAllTime, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStreakMetricLeaderboard(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	long := createTestUser(t, db, "long")
	short := createTestUser(t, db, "short")
	for i := 0; i < 3; i++ {
		addWorkout(t, db, long.ID, daysAgo(i), true)
	}
	addMeal(t, db, short.ID, daysAgo(0))

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricStreak, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 2)
	assert.Equal(t, long.ID, board.Rankings[0].UserID)
	assert.Equal(t, float64(3), board.Rankings[0].Value)
	assert.Equal(t, float64(1), board.Rankings[1].Value)
}

func TestDisplayNameFallsBackToUsername(t *testing.T) {
	db := newTestDB(t)
	engine := newTestRankingEngine(db, nil)

	user := models.User{Username: "plain"}
	require.NoError(t, db.Create(&user).Error)
	givePoints(t, db, user.ID, 10)

	board, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	require.Len(t, board.Rankings, 1)
	assert.Equal(t, "plain", board.Rankings[0].DisplayName)
}

// fakeCache records traffic so tests can observe cache interaction.
type fakeCache struct {
	store map[string][]byte
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) GetBytes(key string) ([]byte, bool) {
	f.gets++
	b, ok := f.store[key]
	return b, ok
}

func (f *fakeCache) SetJSON(key string, v interface{}, ttl time.Duration) {
	f.sets++
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.store[key] = b
}

func TestGlobalLeaderboardServedFromCache(t *testing.T) {
	db := newTestDB(t)
	cache := newFakeCache()
	engine := newTestRankingEngine(db, cache)

	a := createTestUser(t, db, "ana")
	givePoints(t, db, a.ID, 10)

	first, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// New activity lands between calls; the cached page must win.
	givePoints(t, db, a.ID, 90)

	second, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Rankings[0].Value, second.Rankings[0].Value)
	assert.Equal(t, 1, cache.sets, "cache hit must not rewrite the entry")
}

func TestFriendsLeaderboardNeverCached(t *testing.T) {
	db := newTestDB(t)
	cache := newFakeCache()
	engine := newTestRankingEngine(db, cache)

	me := createTestUser(t, db, "me")
	givePoints(t, db, me.ID, 10)

	_, err := engine.BuildLeaderboard(ScopeFriends, me.ID, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	assert.Zero(t, cache.gets)
	assert.Zero(t, cache.sets)
}

func TestGetUserRankBypassesCache(t *testing.T) {
	db := newTestDB(t)
	cache := newFakeCache()
	engine := newTestRankingEngine(db, cache)

	a := createTestUser(t, db, "ana")
	givePoints(t, db, a.ID, 10)

	// Warm the page cache, then add points; the rank endpoint must see them.
	_, err := engine.BuildLeaderboard(ScopeGlobal, 0, MetricPoints, PeriodAllTime, 50, 0)
	require.NoError(t, err)
	givePoints(t, db, a.ID, 40)

	rank, err := engine.GetUserRank(a.ID, ScopeGlobal, 0, MetricPoints, PeriodAllTime, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(50), rank.Value)
}
