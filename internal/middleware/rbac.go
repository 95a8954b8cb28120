package middleware

import (
	"slices"

	"go-bighil/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles only lets callers whose role label is in roles through.
func RequireRoles(skipAuth bool, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !slices.Contains(roles, claims.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient role",
			})
		}

		return c.Next()
	}
}
