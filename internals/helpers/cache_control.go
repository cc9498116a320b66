package helper

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// SetPublicCache: short-lived CDN caching for feed responses.
func SetPublicCache(c *fiber.Ctx, seconds int) {
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", seconds, seconds*2))
	c.Set("CDN-Cache-Control", fmt.Sprintf("public, s-maxage=%d", seconds))
}

func SetNoStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store, must-revalidate")
	c.Set("CDN-Cache-Control", "no-store")
}
