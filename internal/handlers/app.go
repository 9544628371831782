package handlers

import (
	"errors"

	"github.com/arzan03/BloodBridge/internal/metrics"
	"github.com/arzan03/BloodBridge/internal/middleware"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AppConfig struct {
	CORSOrigins string
	BodyLimit   int
}

// NewApp builds the Fiber application with the shared middleware stack and
// every route registered.
func NewApp(cfg AppConfig, h *Handler, deps middleware.GateDeps) *fiber.App {
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 10 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:               "bloodbridge",
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(h.Logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogging(h.Logger))
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	app.Get("/metrics", metrics.Handler())
	Register(app, h, deps)
	return app
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
