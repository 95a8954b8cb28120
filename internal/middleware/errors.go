package middleware

import (
	"errors"

	"go-bighil/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders apperr kinds and fiber errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.KindOf(err),
	})
}
