package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"classifyapi/internal/config"
)

// SecurityHeaders applies the hardening header set to every response.
// Production additionally pins Strict-Transport-Security and a restrictive
// content-security policy; development leaves both off for local testing.
func SecurityHeaders(cfg *config.AppConfig) fiber.Handler {
	h := helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if cfg.HSTSMaxAge > 0 {
		h.HSTSMaxAge = cfg.HSTSMaxAge
	}
	if cfg.ContentSecurityPolicy != "" {
		h.ContentSecurityPolicy = cfg.ContentSecurityPolicy
	}
	return helmet.New(h)
}

// RequireHTTPS issues a permanent redirect to the HTTPS equivalent URL
// when the inbound request arrived over plain HTTP. The service sits
// behind a reverse proxy, so the scheme is read from the forwarded-proto
// header.
func RequireHTTPS(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Next()
		}
		if c.Get(fiber.HeaderXForwardedProto) == "http" {
			target := "https://" + c.Hostname() + c.OriginalURL()
			return c.Redirect(target, fiber.StatusMovedPermanently)
		}
		return c.Next()
	}
}
