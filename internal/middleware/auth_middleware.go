package middleware

import (
	"strings"

	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/arzan03/BloodBridge/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func unauthorized(c *fiber.Ctx) error {
	metrics.AuthDecisions.WithLabelValues("unauthorized").Inc()
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized access"})
}

// AuthMiddleware verifies the bearer token and attaches the principal to the
// request's user context. Every failure produces the same 401 body.
func AuthMiddleware(verifier auth.Verifier, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c)
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c)
		}

		principal, err := verifier.Verify(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return unauthorized(c)
		}

		c.SetUserContext(auth.WithPrincipal(c.UserContext(), principal))
		return c.Next()
	}
}
