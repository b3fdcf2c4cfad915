// middleware/request_log.go
package middleware

import (
	"time"

	"mission-bridge/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request with status and latency.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		ev := utils.Log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = utils.Log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = utils.Log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
