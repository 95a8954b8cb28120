package system

import (
	"context"
	"errors"
	"time"

	"go-bighil/internal/database"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	mongo Pinger
	redis *database.Redis
}

func NewHealthController(db *database.MongodbDB, rdb *database.Redis) *HealthController {
	return &HealthController{
		mongo: mongoPinger{db: db},
		redis: rdb,
	}
}

var errMongoUnreachable = errors.New("mongo unreachable")

type mongoPinger struct {
	db *database.MongodbDB
}

func (p mongoPinger) Ping(ctx context.Context) error {
	if !p.db.IsConnected(ctx) {
		return errMongoUnreachable
	}
	return nil
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Report store and broker reachability
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *HealthController) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	if err := h.mongo.Ping(ctx); err != nil {
		checks["mongo"] = err.Error()
		healthy = false
	} else {
		checks["mongo"] = "ok"
	}

	switch {
	case !h.redis.Enabled():
		checks["redis"] = "disabled"
	case h.redis.Ping(ctx) != nil:
		checks["redis"] = "unreachable"
		healthy = false
	default:
		checks["redis"] = "ok"
	}

	status := fiber.StatusOK
	state := "ok"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
	})
}
