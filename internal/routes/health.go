package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds a liveness endpoint reporting how much of the
// series has been recorded so far.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":        "ok",
			"steps_sampled": d.Recorder.Len(),
			"timestamp":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
