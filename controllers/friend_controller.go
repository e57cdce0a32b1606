package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// FriendController manages friendship edges used by the friends leaderboard scope.
type FriendController struct {
	db *gorm.DB
}

// NewFriendController creates a new controller instance.
func NewFriendController(db *gorm.DB) *FriendController {
	return &FriendController{db: db}
}

// Request creates a pending friendship edge toward another user.
func (f *FriendController) Request(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		FriendID uint `json:"friend_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}
	if req.FriendID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40091, "cannot befriend yourself")
		return
	}

	var target models.User
	if err := f.db.First(&target, req.FriendID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	// An edge in either direction, pending or accepted, blocks a new request.
	var existing models.Friendship
	err := f.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, req.FriendID, req.FriendID, userID).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, 40990, "friendship already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to create friend request")
		return
	}

	edge := models.Friendship{UserID: userID, FriendID: req.FriendID, Status: models.FriendshipPending}
	if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to create friend request")
		return
	}

	utils.Success(ctx, edge)
}

// Accept marks a pending request directed at the caller as accepted.
func (f *FriendController) Accept(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	requestID, ok := paramUint(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40092, "invalid request id")
		return
	}

	var edge models.Friendship
	if err := f.db.Where("id = ? AND friend_id = ? AND status = ?",
		requestID, userID, models.FriendshipPending).First(&edge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40491, "friend request not found")
		return
	}

	edge.Status = models.FriendshipAccepted
	if err := f.db.Save(&edge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to accept friend request")
		return
	}

	utils.Success(ctx, edge)
}

// Remove deletes a friendship edge in either direction.
func (f *FriendController) Remove(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	friendID, ok := paramUint(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40093, "invalid user id")
		return
	}

	res := f.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID).Delete(&models.Friendship{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to remove friend")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40492, "friendship not found")
		return
	}

	utils.Success(ctx, gin.H{"removed": friendID})
}

// List returns the caller's accepted friends.
func (f *FriendController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var edges []models.Friendship
	if err := f.db.Where("(user_id = ? OR friend_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).Find(&edges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to list friends")
		return
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.UserID == userID {
			ids = append(ids, e.FriendID)
		} else {
			ids = append(ids, e.UserID)
		}
	}
	ids = utils.UniqueUint(ids)

	friends := []gin.H{}
	if len(ids) > 0 {
		var users []models.User
		if err := f.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to list friends")
			return
		}
		for _, u := range users {
			friends = append(friends, sanitizeUserResponse(u))
		}
	}

	utils.Success(ctx, gin.H{"friends": friends, "total": len(friends)})
}

// Pending returns friend requests waiting on the caller.
func (f *FriendController) Pending(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var edges []models.Friendship
	if err := f.db.Where("friend_id = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC").Find(&edges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to list requests")
		return
	}

	utils.Success(ctx, gin.H{"requests": edges, "total": len(edges)})
}
