package company

import (
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CompanyController struct {
	service CompanyService
}

func NewCompanyController(service CompanyService) *CompanyController {
	return &CompanyController{
		service: service,
	}
}

// Create godoc
// @Summary Register a company
// @Tags Companies
// @Accept json
// @Produce json
// @Param company body CreateCompanyInput true "Company"
// @Router /api/companies [post]
func (c *CompanyController) Create(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input CreateCompanyInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	company, err := c.service.Create(ctx.Context(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(company)
}

// List godoc
// @Summary List companies
// @Tags Companies
// @Router /api/companies [get]
func (c *CompanyController) List(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	companies, err := c.service.List(ctx.Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(companies)
}

// Get godoc
// @Summary Get a company
// @Tags Companies
// @Router /api/companies/{id} [get]
func (c *CompanyController) Get(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	company, err := c.service.Get(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(company)
}

// Delete godoc
// @Summary Delete a company with all of its complaints
// @Tags Companies
// @Router /api/companies/{id} [delete]
func (c *CompanyController) Delete(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	report, err := c.service.Delete(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"message": "Company deleted successfully",
		"purged":  report,
	})
}

// CreateAdmin godoc
// @Summary Add an admin to a company
// @Tags Companies
// @Accept json
// @Param admin body CreateAdminInput true "Admin"
// @Router /api/companies/{id}/admins [post]
func (c *CompanyController) CreateAdmin(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input CreateAdminInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	admin, err := c.service.CreateAdmin(ctx.Context(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(admin)
}

// ListAdmins godoc
// @Summary List a company's admins
// @Tags Companies
// @Router /api/companies/{id}/admins [get]
func (c *CompanyController) ListAdmins(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	admins, err := c.service.ListAdmins(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(admins)
}
