package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"campusaxis_backend/internals/configs"
	"campusaxis_backend/internals/middlewares/auth"
	routeDetails "campusaxis_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, deps routeDetails.Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps)

	// Public reads and authenticated writes share prefixes, so the token is
	// optional here and handlers that need a user answer 401 themselves.
	api := app.Group("/api",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
			Optional:            true,
		}),
	)

	log.Println("[INFO] Mounting Community routes...")
	routeDetails.CommunityRoutes(api, deps)

	log.Println("[INFO] Mounting Gamification routes...")
	routeDetails.GamificationRoutes(api, deps)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(api, deps)

	log.Println("[INFO] Mounting Admin routes...")
	routeDetails.AdminRoutes(api, deps)
}
