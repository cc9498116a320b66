package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const LocUserID = "user_id"

// GetUserIDFromToken reads c.Locals("user_id") set by the auth middleware.
// 401 when not logged in, 400 when the value is malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
	}
}

// OptionalUserID is the non-failing variant for public routes.
func OptionalUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
