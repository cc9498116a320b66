package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/achievements/controller"
)

func AchievementPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAchievementController(db)
	r.Get("/achievements", ctl.List)
}

// AchievementUserRoutes expects r to be behind the auth middleware.
func AchievementUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAchievementController(db)
	r.Get("/achievements/me", ctl.ListMine)
}
