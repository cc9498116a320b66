package details

import (
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/catalog"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
	"campusaxis_backend/internals/helpers/background"
)

// Deps carries what the route groups need beyond the DB handle.
type Deps struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Runner  *background.Runner
	Stats   *statsService.Updater
}
