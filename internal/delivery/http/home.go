package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const recentPostCount = 10

// Home shows the category shortcuts and the newest posts.
func (h *Handler) Home(c *fiber.Ctx) error {
	posts, err := h.svc.Posts.Recent(c.UserContext(), recentPostCount)
	if err != nil {
		return err
	}
	return render(c, "home", "home", fiber.Map{"posts": posts})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, database := "ok", "up"
	code := fiber.StatusOK
	if err := h.store.Health(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		status, database = "degraded", "down"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"service":  "syucap",
		"database": database,
	})
}
