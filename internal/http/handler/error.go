package handler

import (
	"github.com/gofiber/fiber/v2"
)

// errorPayload is the flat error envelope every failure response uses.
type errorPayload struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response. The message must be safe for
// external exposure; internal causes are logged server-side only.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// ErrorHandler returns a Fiber global error handler that standardizes
// framework-surfaced errors. Internal error text never reaches the body.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusRequestEntityTooLarge:
			// The body cap is a validation outcome, not a server fault.
			return writeError(c, fiber.StatusBadRequest, "File too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "Too many requests")
		case fiber.StatusNotFound:
			return writeError(c, status, "Not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		default:
			return writeError(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}
}
