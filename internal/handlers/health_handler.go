package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.SendString("Hello Devs!")
}

// Healthz reports whether the document store answers a ping.
func (h *Handler) Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.Health.Ping(ctx); err != nil {
		h.Logger.Warn().Err(err).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
