package email

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type EmailController struct {
	log DeliveryLog
}

func NewEmailController(log DeliveryLog) *EmailController {
	return &EmailController{
		log: log,
	}
}

// Failed godoc
// @Summary List recent failed deliveries
// @Tags Emails
// @Produce json
// @Param hours query int false "Look-back window in hours"
// @Param limit query int false "Limit"
// @Router /api/emails/failed [get]
func (c *EmailController) Failed(ctx *fiber.Ctx) error {
	hours, err := strconv.Atoi(ctx.Query("hours", "24"))
	if err != nil || hours <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid hours"})
	}
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	emails, err := c.log.Failed(ctx.Context(), since, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"data":  emails,
		"since": since,
	})
}
