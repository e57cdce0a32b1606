package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/services"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// LeaderboardController exposes the ranking engine over HTTP.
type LeaderboardController struct {
	rankings *services.RankingEngine
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(rankings *services.RankingEngine) *LeaderboardController {
	return &LeaderboardController{rankings: rankings}
}

// GetLeaderboard returns a ranked page for the requested scope/metric/period.
// Unknown scope, metric, or period values fall back to their defaults rather
// than erroring, so older clients keep working.
func (l *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	userID, _ := getUserID(ctx)

	scope := services.ParseScope(ctx.Query("scope"))
	metric := services.ParseMetric(ctx.Query("metric"))
	period := services.ParsePeriod(ctx.Query("period"))

	limit := queryInt(ctx, "limit", services.DefaultLeaderboardLimit)
	if limit < 1 || limit > 100 {
		limit = services.DefaultLeaderboardLimit
	}
	offset := queryInt(ctx, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	var scopeID uint
	switch scope {
	case services.ScopeOrganization:
		id, ok := queryUint(ctx, "org_id")
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40080, "org_id is required for organization scope")
			return
		}
		scopeID = id
	case services.ScopeFriends:
		if userID == 0 {
			utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
			return
		}
		scopeID = userID
	}

	board, err := l.rankings.BuildLeaderboard(scope, scopeID, metric, period, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "organization not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to build leaderboard")
		return
	}

	utils.Success(ctx, board)
}

// GetMyRank returns the caller's absolute rank plus a window of nearby users.
// The result is always computed fresh, never served from cache.
func (l *LeaderboardController) GetMyRank(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	l.userRank(ctx, userID)
}

// GetUserRank returns another user's rank by ID.
func (l *LeaderboardController) GetUserRank(ctx *gin.Context) {
	targetID, ok := paramUint(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid user id")
		return
	}
	l.userRank(ctx, targetID)
}

func (l *LeaderboardController) userRank(ctx *gin.Context, targetID uint) {
	scope := services.ParseScope(ctx.Query("scope"))
	metric := services.ParseMetric(ctx.Query("metric"))
	period := services.ParsePeriod(ctx.Query("period"))

	nearby := queryInt(ctx, "range", services.DefaultNearbyRange)
	if nearby < 0 || nearby > 10 {
		nearby = services.DefaultNearbyRange
	}

	var scopeID uint
	switch scope {
	case services.ScopeOrganization:
		id, ok := queryUint(ctx, "org_id")
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40080, "org_id is required for organization scope")
			return
		}
		scopeID = id
	case services.ScopeFriends:
		scopeID = targetID
	}

	rank, err := l.rankings.GetUserRank(targetID, scope, scopeID, metric, period, nearby)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		case errors.Is(err, services.ErrOrganizationNotFound):
			utils.Error(ctx, http.StatusNotFound, 40480, "organization not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to compute rank")
		}
		return
	}

	utils.Success(ctx, rank)
}
