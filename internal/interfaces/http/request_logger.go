package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = errorStatus(err)
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
