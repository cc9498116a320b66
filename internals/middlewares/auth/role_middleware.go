package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "campusaxis_backend/internals/helpers"
)

// RolesOf returns the global roles AuthJWT stored for this request.
func RolesOf(c *fiber.Ctx) []string {
	if v, ok := c.Locals(LocRolesGlobal).([]string); ok {
		return v
	}
	return nil
}

func HasRole(c *fiber.Ctx, wanted ...string) bool {
	for _, r := range RolesOf(c) {
		for _, w := range wanted {
			if strings.EqualFold(r, w) {
				return true
			}
		}
	}
	return false
}

// RequireRoles must run after AuthJWT: 401 without a session, 403 when
// none of roles is held.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		if !HasRole(c, roles...) {
			log.Printf("[AUTH] user=%s lacks role %v for %s %s", userID, roles, c.Method(), c.Path())
			return fiber.NewError(fiber.StatusForbidden, "Forbidden: you are not authorized to access this resource")
		}
		return c.Next()
	}
}

// RequireUser rejects anonymous requests that passed an optional AuthJWT.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := helper.GetUserIDFromToken(c); err != nil {
			return err
		}
		return c.Next()
	}
}
