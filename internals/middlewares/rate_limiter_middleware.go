package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "campusaxis_backend/internals/helpers"
)

func limitReached(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusTooManyRequests, msg)
	}
}

// userOrIP keys authenticated callers by user id so campus NATs don't share a bucket.
func userOrIP(c *fiber.Ctx) string {
	if id, ok := helper.OptionalUserID(c); ok {
		return "u:" + id.String()
	}
	return "ip:" + c.IP()
}

// Global limiter: every endpoint
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          120,
		Expiration:   1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: limitReached("Too many requests. Please try again later."),
	})
}

// Post creation: stricter, keyed per user.
func PostWriteRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          10,
		Expiration:   1 * time.Minute,
		KeyGenerator: userOrIP,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		LimitReached: limitReached("You are posting too fast. Slow down a little."),
	})
}

// Bulk imports are heavy; a handful per minute is plenty.
func ImportRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          5,
		Expiration:   1 * time.Minute,
		KeyGenerator: userOrIP,
		LimitReached: limitReached("Too many import requests. Try again in a minute."),
	})
}
