package details

import (
	"github.com/gofiber/fiber/v2"

	achievementRoute "campusaxis_backend/internals/features/gamification/achievements/route"
	statsRoute "campusaxis_backend/internals/features/gamification/stats/route"
)

func GamificationRoutes(api fiber.Router, d Deps) {
	g := api.Group("/gamification")

	// public
	achievementRoute.AchievementPublicRoutes(g, d.DB)
	statsRoute.LeaderboardRoutes(g, d.DB, d.Catalog)

	// session required, checked per handler
	achievementRoute.AchievementUserRoutes(g, d.DB)
	statsRoute.UserStatsRoutes(g, d.DB, d.Catalog)
}
