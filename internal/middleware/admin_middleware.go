package middleware

import (
	"context"

	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/arzan03/BloodBridge/internal/metrics"
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RoleLookup finds the stored user behind a principal.
type RoleLookup interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// AdminMiddleware lets the request through only when the verified principal
// has a stored user with the admin role. It must run after AuthMiddleware.
// A failed lookup is a server error, never an implicit allow.
func AdminMiddleware(users RoleLookup, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFrom(c.UserContext())
		if !ok {
			return unauthorized(c)
		}

		user, err := users.FindByEmail(c.UserContext(), principal.Email)
		if err != nil {
			logger.Error().Err(err).Str("email", principal.Email).Msg("role lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "role lookup failed"})
		}

		if !models.IsAdmin(user) {
			metrics.AuthDecisions.WithLabelValues("forbidden").Inc()
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
		}

		metrics.AuthDecisions.WithLabelValues("admin").Inc()
		return c.Next()
	}
}
