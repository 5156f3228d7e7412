package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/melih/dockhook/internal/core/ports"
	"github.com/rs/zerolog"
)

// NewApp builds the Fiber application with all routes registered.
func NewApp(service ports.ContainerService, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dockhook",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(logger))

	RegisterRoutes(app, NewContainerHandler(service))
	return app
}

// RegisterRoutes wires the container handler onto router.
func RegisterRoutes(router fiber.Router, h *ContainerHandler) {
	router.All("/", h.Hello)
	router.Get("/healthcheck", h.Healthcheck)
	router.Post("/start", h.Start)
	router.Post("/stop", h.Stop)
	router.Post("/restart", h.Restart)
}
