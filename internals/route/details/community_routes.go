package details

import (
	"github.com/gofiber/fiber/v2"

	postRoute "campusaxis_backend/internals/features/community/posts/route"
	rateLimiter "campusaxis_backend/internals/middlewares"
)

// CommunityRoutes: /api/community/posts. Reads are public, writes need a
// session and POST is throttled per author.
func CommunityRoutes(api fiber.Router, d Deps) {
	postRoute.PostRoutes(api, d.DB, d.Runner, d.Stats, rateLimiter.PostWriteRateLimiter())
}
