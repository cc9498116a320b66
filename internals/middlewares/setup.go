package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"campusaxis_backend/internals/configs"
	"campusaxis_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the stack shared by every route.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(5 * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(configs.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	if configs.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		app.Use(GlobalRateLimiter())
	}
}
