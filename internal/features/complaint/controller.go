package complaint

import (
	"fmt"
	"strconv"

	"go-bighil/internal/features/priority"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ComplaintController struct {
	service ComplaintService
}

func NewComplaintController(service ComplaintService) *ComplaintController {
	return &ComplaintController{
		service: service,
	}
}

func listQuery(ctx *fiber.Ctx) ListQuery {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	return ListQuery{
		Status:     Status(ctx.Query("status")),
		Priority:   priority.Level(ctx.Query("priority")),
		Department: ctx.Query("department"),
		Search:     ctx.Query("search"),
		Page:       page,
		Limit:      limit,
	}
}

// Submit godoc
// @Summary File a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param complaint body SubmitInput true "Complaint"
// @Router /api/complaints [post]
func (c *ComplaintController) Submit(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input SubmitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	complaint, err := c.service.Submit(ctx.Context(), actor, input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Complaint submitted successfully",
		"data":    complaint,
	})
}

// List godoc
// @Summary List complaints visible to the caller
// @Tags Complaints
// @Produce json
// @Router /api/complaints [get]
func (c *ComplaintController) List(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	q := listQuery(ctx)
	complaints, total, err := c.service.List(ctx.Context(), actor, q)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"data":  complaints,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

// Get godoc
// @Summary Get a complaint
// @Tags Complaints
// @Router /api/complaints/{id} [get]
func (c *ComplaintController) Get(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	complaint, err := c.service.Get(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(complaint)
}

// UpdateStatus godoc
// @Summary Move a complaint to In Progress, Resolved or Unwanted
// @Tags Complaints
// @Accept json
// @Param body body UpdateStatusInput true "Status change"
// @Router /api/complaints/{id}/status [put]
func (c *ComplaintController) UpdateStatus(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input UpdateStatusInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := c.service.ChangeStatus(ctx.Context(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"message": "Complaint status updated",
		"data":    result,
	})
}

// Authorize godoc
// @Summary Approve or reject a pending resolution
// @Tags Complaints
// @Accept json
// @Param body body AuthorizeInput true "Decision"
// @Router /api/complaints/{id}/authorize [put]
func (c *ComplaintController) Authorize(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input AuthorizeInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := c.service.Authorize(ctx.Context(), actor, ctx.Params("id"), input)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"message": fmt.Sprintf("Authorization %s", input.Decision),
		"data":    result,
	})
}

// Timeline godoc
// @Summary Complaint timeline
// @Tags Complaints
// @Router /api/complaints/{id}/timeline [get]
func (c *ComplaintController) Timeline(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	entries, err := c.service.Timeline(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(entries)
}

// Resolutions godoc
// @Summary Resolution records of a complaint
// @Tags Complaints
// @Router /api/complaints/{id}/resolutions [get]
func (c *ComplaintController) Resolutions(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	resolutions, err := c.service.Resolutions(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(resolutions)
}

// AddNote godoc
// @Summary Add an internal note
// @Tags Complaints
// @Router /api/complaints/{id}/notes [post]
func (c *ComplaintController) AddNote(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	note, err := c.service.AddNote(ctx.Context(), actor, ctx.Params("id"), body.Content)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(note)
}

// Notes godoc
// @Summary List internal notes
// @Tags Complaints
// @Router /api/complaints/{id}/notes [get]
func (c *ComplaintController) Notes(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	notes, err := c.service.Notes(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(notes)
}

// Stats godoc
// @Summary Dashboard counts by status and priority
// @Tags Complaints
// @Router /api/complaints/stats [get]
func (c *ComplaintController) Stats(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	stats, err := c.service.Stats(ctx.Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(stats)
}

// Export godoc
// @Summary Export complaints as csv or xlsx
// @Tags Complaints
// @Param format query string false "csv or xlsx"
// @Router /api/complaints/export [get]
func (c *ComplaintController) Export(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	format := ctx.Query("format", "csv")
	data, filename, err := c.service.Export(ctx.Context(), actor, format, listQuery(ctx))
	if err != nil {
		return err
	}

	if format == "xlsx" {
		ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		ctx.Set("Content-Type", "text/csv")
	}
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

// Tags godoc
// @Summary Known complaint tags and their priority
// @Tags Complaints
// @Router /api/complaints/tags [get]
func (c *ComplaintController) Tags(ctx *fiber.Ctx) error {
	return ctx.JSON(priority.Table())
}
