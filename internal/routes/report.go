package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/clearsim/clearsim/internal/report"
)

// RegisterReportRoutes wires the recorder series and live ledger totals for
// an external plotting client.
func RegisterReportRoutes(r fiber.Router, d Deps) {
	r.Get("/series", func(c *fiber.Ctx) error {
		columns := d.Recorder.Columns()
		rows := d.Recorder.Series()

		out := make([]fiber.Map, 0, len(rows))
		for _, row := range rows {
			totals := make(map[string]decimal.Decimal, len(columns))
			for _, symbol := range columns {
				totals[symbol] = report.Display(row.Totals[symbol])
			}
			out = append(out, fiber.Map{
				"step":   row.Step,
				"totals": totals,
			})
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"columns": columns,
			"rows":    out,
		})
	})

	r.Get("/ledgers", func(c *fiber.Ctx) error {
		ledgers := d.House.Ledgers()
		out := make(map[string]fiber.Map, len(ledgers))
		for symbol, l := range ledgers {
			total := l.TotalSupply()
			out[symbol] = fiber.Map{
				"address":      string(l.Address()),
				"micro_units":  total,
				"total_supply": report.Display(total),
			}
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"ledgers": out})
	})
}
