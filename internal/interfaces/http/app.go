package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/vero-api/pkg/logger"
)

// NewApp construye la aplicación Fiber con recover, logging de peticiones, /health y las rutas /api.
func NewApp(appName string, deps RouterDeps, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	})

	Router(app, deps)
	return app
}
