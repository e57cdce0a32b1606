package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/services"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// ActivityController handles workout and meal logging plus streak queries.
type ActivityController struct {
	db      *gorm.DB
	streaks *services.StreakEngine
}

// NewActivityController creates a new controller instance.
func NewActivityController(db *gorm.DB, streaks *services.StreakEngine) *ActivityController {
	return &ActivityController{db: db, streaks: streaks}
}

var allowedActivityTypes = map[string]bool{
	"strength": true, "cardio": true, "hiit": true, "yoga": true,
	"mobility": true, "swimming": true, "cycling": true, "running": true,
	"walking": true, "other": true,
}

// LogWorkout persists a workout session and returns the recomputed streaks.
func (a *ActivityController) LogWorkout(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		ActivityType    string  `json:"activity_type" binding:"required"`
		DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=1440"`
		CaloriesBurned  int     `json:"calories_burned" binding:"min=0,max=20000"`
		Completed       *bool   `json:"completed"`
		Notes           string  `json:"notes"`
		PerformedAt     *string `json:"performed_at"` // RFC 3339; defaults to now
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	activityType := strings.ToLower(strings.TrimSpace(req.ActivityType))
	if !allowedActivityTypes[activityType] {
		utils.Error(ctx, http.StatusBadRequest, 40061, "unknown activity type")
		return
	}

	performedAt := time.Now()
	if req.PerformedAt != nil && *req.PerformedAt != "" {
		t, err := time.Parse(time.RFC3339, *req.PerformedAt)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40062, "performed_at must be RFC 3339")
			return
		}
		if t.After(time.Now().Add(time.Minute)) {
			utils.Error(ctx, http.StatusBadRequest, 40063, "performed_at cannot be in the future")
			return
		}
		performedAt = t
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	session := models.WorkoutSession{
		UserID:          userID,
		ActivityType:    activityType,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Completed:       completed,
		Notes:           utils.Sanitize(req.Notes),
		PerformedAt:     performedAt,
	}
	if err := a.db.Create(&session).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to log workout")
		return
	}

	resp := gin.H{"workout": session}
	if completed {
		summary, err := a.streaks.RecordActivity(userID, services.CategoryWorkout, performedAt)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to update streaks")
			return
		}
		resp["streaks"] = summary
	}

	utils.Success(ctx, resp)
}

// LogMeal persists a meal log entry and returns the recomputed streaks.
func (a *ActivityController) LogMeal(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		MealType    string  `json:"meal_type" binding:"required"`
		Description string  `json:"description"`
		Calories    int     `json:"calories" binding:"min=0,max=20000"`
		LoggedAt    *string `json:"logged_at"` // RFC 3339; defaults to now
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	switch mealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40071, "unknown meal type")
		return
	}

	loggedAt := time.Now()
	if req.LoggedAt != nil && *req.LoggedAt != "" {
		t, err := time.Parse(time.RFC3339, *req.LoggedAt)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40072, "logged_at must be RFC 3339")
			return
		}
		if t.After(time.Now().Add(time.Minute)) {
			utils.Error(ctx, http.StatusBadRequest, 40073, "logged_at cannot be in the future")
			return
		}
		loggedAt = t
	}

	meal := models.MealLog{
		UserID:      userID,
		MealType:    mealType,
		Description: utils.Sanitize(req.Description),
		Calories:    req.Calories,
		LoggedAt:    loggedAt,
	}
	if err := a.db.Create(&meal).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to log meal")
		return
	}

	summary, err := a.streaks.RecordActivity(userID, services.CategoryNutrition, loggedAt)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to update streaks")
		return
	}

	utils.Success(ctx, gin.H{"meal": meal, "streaks": summary})
}

// ListWorkouts returns the user's workout history, newest first.
func (a *ActivityController) ListWorkouts(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	page := queryInt(ctx, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(ctx, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := a.db.Model(&models.WorkoutSession{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list workouts")
		return
	}

	var sessions []models.WorkoutSession
	if err := a.db.Where("user_id = ?", userID).
		Order("performed_at DESC, id DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&sessions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list workouts")
		return
	}

	utils.Success(ctx, gin.H{
		"workouts":  sessions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ListMeals returns the user's meal history, newest first.
func (a *ActivityController) ListMeals(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	page := queryInt(ctx, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(ctx, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := a.db.Model(&models.MealLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to list meals")
		return
	}

	var meals []models.MealLog
	if err := a.db.Where("user_id = ?", userID).
		Order("logged_at DESC, id DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&meals).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to list meals")
		return
	}

	utils.Success(ctx, gin.H{
		"meals":     meals,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStreaks returns the user's current streaks plus all-time record highs.
func (a *ActivityController) GetStreaks(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	workout, err := a.streaks.ComputeCategoryStreak(userID, services.CategoryWorkout)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to compute streaks")
		return
	}
	nutrition, err := a.streaks.ComputeCategoryStreak(userID, services.CategoryNutrition)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to compute streaks")
		return
	}
	overall, err := a.streaks.ComputeOverallStreak(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to compute streaks")
		return
	}

	var record models.StreakRecord
	if err := a.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		// No row yet simply means nothing logged; highs stay zero.
		record = models.StreakRecord{UserID: userID}
	}

	utils.Success(ctx, gin.H{
		"current": services.StreakSummary{Workout: workout, Nutrition: nutrition, Overall: overall},
		"records": gin.H{
			"longest_workout_streak":   record.LongestWorkoutStreak,
			"longest_nutrition_streak": record.LongestNutritionStreak,
			"longest_overall_streak":   record.LongestOverallStreak,
		},
	})
}
