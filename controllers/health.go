package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
)

type HealthController struct{}

// Health reports service liveness plus database and Redis reachability.
func (hc *HealthController) Health(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "ok",
		"time":   time.Now().UTC(),
	}

	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	} else {
		status["database"] = "ok"
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	} else {
		status["redis"] = "disabled"
	}

	code := fiber.StatusOK
	if status["status"] != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
