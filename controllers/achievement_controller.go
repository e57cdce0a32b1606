package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/services"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// AchievementController serves the achievement catalog with unlock status.
type AchievementController struct {
	db *gorm.DB
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db}
}

// List returns every achievement with the caller's unlock state.
func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	items, err := services.AchievementsWithStatus(a.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to list achievements")
		return
	}

	unlocked := 0
	for _, it := range items {
		if it.Unlocked {
			unlocked++
		}
	}

	utils.Success(ctx, gin.H{
		"achievements": items,
		"total":        len(items),
		"unlocked":     unlocked,
	})
}
