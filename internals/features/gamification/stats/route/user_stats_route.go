package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/catalog"
	"campusaxis_backend/internals/features/gamification/stats/controller"
)

// UserStatsRoutes expects r to be behind the auth middleware.
func UserStatsRoutes(r fiber.Router, db *gorm.DB, cat *catalog.Catalog) {
	ctl := controller.NewUserStatsController(db, cat)

	me := r.Group("/stats/me")
	me.Get("/", ctl.GetMine)
	me.Post("/", ctl.EnsureMine)
}

func LeaderboardRoutes(r fiber.Router, db *gorm.DB, cat *catalog.Catalog) {
	ctl := controller.NewUserStatsController(db, cat)
	r.Get("/leaderboard", ctl.Leaderboard)
}
