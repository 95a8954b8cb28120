package middleware

import (
	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware validates JWT tokens and injects user claims into context
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			c.Locals(utils.UserClaimsKey, &utils.UserClaims{
				UserID: primitive.NilObjectID.Hex(),
				Role:   common_models.RoleBighil,
			})
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(authHeader[7:])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		return c.Next()
	}
}

// ClaimsToActor converts verified claims into the core's actor value.
func ClaimsToActor(claims *utils.UserClaims) (common_models.Actor, error) {
	if claims == nil {
		return common_models.Actor{}, apperr.Unauthorized("missing credentials")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return common_models.Actor{}, apperr.Unauthorized("invalid subject in token")
	}
	actor := common_models.Actor{ID: id, Role: claims.Role}
	if claims.CompanyID != "" {
		companyID, err := primitive.ObjectIDFromHex(claims.CompanyID)
		if err != nil {
			return common_models.Actor{}, apperr.Unauthorized("invalid company in token")
		}
		actor.CompanyID = companyID
	}
	return actor, nil
}

// ActorFromCtx reads the actor placed by AuthMiddleware.
func ActorFromCtx(c *fiber.Ctx) (common_models.Actor, error) {
	claims, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return ClaimsToActor(claims)
}
