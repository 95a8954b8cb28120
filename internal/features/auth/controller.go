package auth

import (
	"context"
	"time"

	"go-bighil/internal/features/user"
	"go-bighil/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Register an end user and open a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body user.RegisterInput true "Register Input"
// @Success      201  {object} AuthResponse
// @Failure      400  {string} string "Invalid request body"
// @Router       /api/auth/register [post]
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req user.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := ctrl.AuthService.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login godoc
// @Summary      Login
// @Description  Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} AuthResponse
// @Failure      401  {string} string "Invalid credentials"
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	return ctrl.login(c, ctrl.AuthService.Login)
}

// AdminLogin godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} AuthResponse
// @Router       /api/auth/admin/login [post]
func (ctrl *AuthController) AdminLogin(c *fiber.Ctx) error {
	return ctrl.login(c, ctrl.AuthService.AdminLogin)
}

// OperatorLogin godoc
// @Summary      Platform operator login
// @Tags         auth
// @Accept       json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} AuthResponse
// @Router       /api/auth/operator/login [post]
func (ctrl *AuthController) OperatorLogin(c *fiber.Ctx) error {
	return ctrl.login(c, ctrl.AuthService.OperatorLogin)
}

type loginFunc func(ctx context.Context, email, password string) (*AuthResponse, error)

func (ctrl *AuthController) login(c *fiber.Ctx, fn loginFunc) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := fn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Router       /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ctrl.AuthService.Logout(c.Context(), claims.SessionID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
