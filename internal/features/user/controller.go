package user

import (
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// Me godoc
// @Summary Get the signed in user
// @Tags Users
// @Produce json
// @Router /api/users/me [get]
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	user, err := ctrl.UserService.Me(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Suspend godoc
// @Summary Suspend a user
// @Tags Users
// @Router /api/users/{id}/suspend [put]
func (ctrl *UserController) Suspend(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.UserService.Suspend(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User suspended successfully"})
}
