package details

import (
	"github.com/gofiber/fiber/v2"

	importRoute "campusaxis_backend/internals/features/admin/imports/route"
	rateLimiter "campusaxis_backend/internals/middlewares"
	"campusaxis_backend/internals/middlewares/auth"
)

// AdminRoutes: /api/admin/... requires the global admin role.
func AdminRoutes(api fiber.Router, d Deps) {
	admin := api.Group("/admin",
		auth.RequireRoles("admin"),
		rateLimiter.ImportRateLimiter(),
	)
	importRoute.ImportRoutes(admin, d.DB)
}
