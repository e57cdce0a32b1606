package main

import (
	"time"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/config"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/routes"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/services"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Organization{},
		&models.WorkoutSession{},
		&models.MealLog{},
		&models.StreakRecord{},
		&models.PointsEntry{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Friendship{},
		&models.Post{},
		&models.Comment{},
		&models.UploadedFile{},
	)

	if err := services.SeedAchievements(db); err != nil {
		utils.Sugar.Warnf("achievement seed failed: %v", err)
	}

	r := routes.SetupRouter(db)

	// Background removal of replaced avatar files (best-effort)
	utils.StartAvatarCleaner(5 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
