package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	prefController "campusaxis_backend/internals/features/users/preferences/controller"
)

// UserPreferenceRoutes mounts /preferences under r, the /users/me group.
func UserPreferenceRoutes(r fiber.Router, db *gorm.DB) {
	ctl := prefController.NewUserPreferenceController(db)

	prefs := r.Group("/preferences")
	prefs.Get("/", ctl.GetMine)
	prefs.Put("/", ctl.PutMine)
}
