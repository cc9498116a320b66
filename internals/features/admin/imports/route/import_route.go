package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/admin/imports/controller"
)

// ImportRoutes expects r to already require the admin role.
func ImportRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewImportController(db)

	imp := r.Group("/import")
	imp.Post("/faculty", ctl.ImportFaculty)
	imp.Post("/reviews", ctl.ImportReviews)
}
