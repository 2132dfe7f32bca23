package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/clearsim/clearsim/internal/config"
	"github.com/clearsim/clearsim/internal/ledger"
	"github.com/clearsim/clearsim/internal/middleware"
	"github.com/clearsim/clearsim/internal/report"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	House    *ledger.House
	Recorder *report.Recorder
	Logger   *slog.Logger
}

// Setup configures middlewares and the reporting routes.
func Setup(app *fiber.App, d Deps) error {
	if d.House == nil {
		return fmt.Errorf("routes: clearing house is required")
	}
	if d.Recorder == nil {
		return fmt.Errorf("routes: recorder is required")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	RegisterReportRoutes(api, d)

	return nil
}
