package details

import (
	"github.com/gofiber/fiber/v2"

	prefRoute "campusaxis_backend/internals/features/users/preferences/route"
	"campusaxis_backend/internals/middlewares/auth"
)

// UserRoutes: /api/users/me/... always needs a session.
func UserRoutes(api fiber.Router, d Deps) {
	me := api.Group("/users/me", auth.RequireUser())
	prefRoute.UserPreferenceRoutes(me, d.DB)
}
