package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"classifyapi/internal/service"
)

const readinessMessage = "Ready to process images. Please send a POST request with an image."

// classifyResponse is the success envelope for one classified upload.
// stopSlideshow tells the browsing client to pin the predicted image.
type classifyResponse struct {
	Category      string  `json:"category"`
	Probability   float64 `json:"probability"`
	StopSlideshow bool    `json:"stopSlideshow"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// uploadLimit is the route-scoped burst limiter applied to the upload
// endpoint only.
func RegisterRoutes(app *fiber.App, svc service.ClassifyService, uploadLimit fiber.Handler) {
	app.Get("/", Readiness())
	app.Post("/", uploadLimit, ClassifyImage(svc))

	// Simple liveness probe; the model loads before the listener starts,
	// so a live process is also ready.
	app.Get("/healthz", LivenessProbe())
}

// Readiness answers a bare GET with a static readiness message.
func Readiness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": readinessMessage})
	}
}

// LivenessProbe reports process liveness.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ClassifyImage validates the multipart upload, runs it through the
// classification pipeline and writes the result envelope.
func ClassifyImage(svc service.ClassifyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, errMissingFile.Error())
		}

		fh, verr := validateUpload(form)
		if verr != nil {
			return writeError(c, fiber.StatusBadRequest, verr.Error())
		}

		f, err := fh.Open()
		if err != nil {
			log.Printf("failed to open uploaded file %q: %v", fh.Filename, err)
			return writeError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		defer f.Close()

		pred, err := svc.ClassifyUpload(c.UserContext(), f, fh.Filename)
		if err != nil {
			// The cause stays in server logs; the client only sees the
			// generic message.
			log.Printf("classification pipeline failed for %q: %v", fh.Filename, err)
			return writeError(c, fiber.StatusInternalServerError, "Internal server error")
		}

		return c.Status(fiber.StatusOK).JSON(classifyResponse{
			Category:      pred.Category,
			Probability:   pred.Probability,
			StopSlideshow: true,
		})
	}
}
