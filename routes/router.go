package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/config"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/controllers"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/middleware"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/services"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	streaks := services.NewStreakEngine(db, cfg.WorkoutRewardPoints, cfg.NutritionRewardPoints)
	// TTL of 0 disables leaderboard caching outright.
	var leaderboardCache services.Cache
	if cfg.LeaderboardCacheTTLSec > 0 {
		leaderboardCache = utils.RedisCache{}
	}
	rankings := services.NewRankingEngine(db, streaks, leaderboardCache, time.Duration(cfg.LeaderboardCacheTTLSec)*time.Second)

	authController := controllers.NewAuthController(db)
	activityController := controllers.NewActivityController(db, streaks)
	leaderboardController := controllers.NewLeaderboardController(rankings)
	achievementController := controllers.NewAchievementController(db)
	friendController := controllers.NewFriendController(db)
	feedController := controllers.NewFeedController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)
	authGroup.POST("/avatar", middleware.AuthRequired(), authController.UploadAvatar)

	// Public endpoints
	api.GET("/stats", statsController.GetStats)
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/users/:id/posts", feedController.ListUserPosts)
	api.GET("/posts", feedController.ListPosts)
	api.GET("/posts/:id", feedController.GetPost)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/workouts", activityController.LogWorkout)
	protected.GET("/workouts", activityController.ListWorkouts)
	protected.POST("/meals", activityController.LogMeal)
	protected.GET("/meals", activityController.ListMeals)
	protected.GET("/streaks", activityController.GetStreaks)

	protected.GET("/leaderboard", leaderboardController.GetLeaderboard)
	protected.GET("/leaderboard/me", leaderboardController.GetMyRank)
	protected.GET("/leaderboard/users/:id", leaderboardController.GetUserRank)

	protected.GET("/achievements", achievementController.List)

	protected.POST("/friends/requests", friendController.Request)
	protected.GET("/friends/requests", friendController.Pending)
	protected.POST("/friends/requests/:id/accept", friendController.Accept)
	protected.GET("/friends", friendController.List)
	protected.DELETE("/friends/:id", friendController.Remove)

	protected.POST("/posts", feedController.CreatePost)
	protected.PUT("/posts/:id", feedController.UpdatePost)
	protected.DELETE("/posts/:id", feedController.DeletePost)
	protected.POST("/posts/:id/comments", feedController.CreateComment)
	protected.DELETE("/comments/:commentId", feedController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
