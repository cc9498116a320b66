package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders err with the standard error envelope.
// *fiber.Error keeps its status; anything else becomes a generic 500 and
// the cause is only logged.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonInternal(c)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so middleware
// errors (auth, limiter, body limit) share the handlers' response shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
