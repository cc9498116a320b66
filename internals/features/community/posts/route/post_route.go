package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/community/posts/controller"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
	"campusaxis_backend/internals/helpers/background"
)

// PostRoutes mounts /community/posts. Reads are public; writes resolve the
// user from the optional auth middleware in front of r and 401 without one.
// Extra handlers (rate limiting) run before Create.
func PostRoutes(r fiber.Router, db *gorm.DB, runner *background.Runner, stats *statsService.Updater, onCreate ...fiber.Handler) {
	ctl := controller.NewPostController(db, runner, stats)

	posts := r.Group("/community/posts")
	posts.Get("/", ctl.List)
	posts.Post("/", append(onCreate, ctl.Create)...)
	posts.Get("/:id", ctl.Get)
	posts.Patch("/:id", ctl.Patch)
	posts.Delete("/:id", ctl.Delete)
}
