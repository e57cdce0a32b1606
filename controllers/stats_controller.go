package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// StatsController provides platform statistics such as counts and daily activity.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate platform statistics. Individual counters fall
// back to 0 instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:stats:platform"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var userCount int64
	var workoutCount int64
	var mealCount int64
	var postCount int64
	var workoutsToday int64
	var mealsToday int64
	var pointsToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.WorkoutSession{}).Count(&workoutCount).Error; err != nil {
		workoutCount = 0
	}
	if err := s.db.Model(&models.MealLog{}).Count(&mealCount).Error; err != nil {
		mealCount = 0
	}
	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		postCount = 0
	}

	now := time.Now().In(time.Local)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextDay := dayStart.AddDate(0, 0, 1)

	if err := s.db.Model(&models.WorkoutSession{}).
		Where("performed_at >= ? AND performed_at < ?", dayStart, nextDay).
		Count(&workoutsToday).Error; err != nil {
		workoutsToday = 0
	}
	if err := s.db.Model(&models.MealLog{}).
		Where("logged_at >= ? AND logged_at < ?", dayStart, nextDay).
		Count(&mealsToday).Error; err != nil {
		mealsToday = 0
	}
	if err := s.db.Model(&models.PointsEntry{}).
		Where("created_at >= ? AND created_at < ?", dayStart, nextDay).
		Select("COALESCE(SUM(points),0)").
		Scan(&pointsToday).Error; err != nil {
		pointsToday = 0
	}

	payload := gin.H{
		"user_count":     userCount,
		"workout_count":  workoutCount,
		"meal_count":     mealCount,
		"post_count":     postCount,
		"workouts_today": workoutsToday,
		"meals_today":    mealsToday,
		"points_today":   pointsToday,
	}
	utils.CacheSetJSON("cache:stats:platform", utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Minute)
	utils.Success(ctx, payload)
}
