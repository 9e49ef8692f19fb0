package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

type healthCheck struct {
	name     string
	fallback string
	ping     func(ctx context.Context) error
}

// RegisterHealthRoutes exposes /healthz. Each configured store is pinged; a
// store that is not configured reports its fallback ("memory" for the wallet
// database, "disabled" for the rate limiter cache) and never fails the check.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	checks := []healthCheck{{name: "postgres", fallback: "memory"}, {name: "redis", fallback: "disabled"}}
	if d.DB != nil {
		checks[0].ping = d.DB.Ping
	}
	if d.Cache != nil {
		checks[1].ping = func(ctx context.Context) error { return d.Cache.Ping(ctx).Err() }
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		code := http.StatusOK
		report := fiber.Map{}
		for _, check := range checks {
			switch {
			case check.ping == nil:
				report[check.name] = check.fallback
			case check.ping(ctx) != nil:
				report[check.name] = "unavailable"
				code = http.StatusServiceUnavailable
			default:
				report[check.name] = "ok"
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    report,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
