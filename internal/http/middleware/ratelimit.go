package middleware

import (
	"github.com/gofiber/fiber/v2"

	"classifyapi/internal/ratelimit"
)

// RateLimit rejects requests exceeding the given fixed-window limits,
// keyed on the client IP. route namespaces the counters so a route-scoped
// burst limit and the global limits count independently.
func RateLimit(l *ratelimit.Limiter, route string, limits ...ratelimit.Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.UserContext(), c.IP(), route, limits...) {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
