// Package webapi wires the Fiber application: middleware, rate limits
// and the payment routes.
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mwendwa/payrelay/pkg/config"
)

// SetupApp builds the Fiber app with shared middleware and per-route
// rate limiters. Route registration is left to the caller so handler
// packages can import this one for the response helpers.
func SetupApp(cfg *config.App) (app *fiber.App, chargeLimiter, queryLimiter fiber.Handler) {
	app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Payment relay is running 🚀")
	})

	chargeLimiter = newLimiter(cfg.RateLimit.ChargeMax, cfg)
	queryLimiter = newLimiter(cfg.RateLimit.QueryMax, cfg)
	return app, chargeLimiter, queryLimiter
}

// newLimiter caps requests per source IP inside the configured window.
// Uses X-Forwarded-For when behind a proxy, falling back to X-Real-IP
// and then the direct peer address.
func newLimiter(max int, cfg *config.App) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(
				c,
				fiber.StatusTooManyRequests,
				"Too Many Requests",
				"rate limit exceeded",
			)
		},
	})
}
