package cyclecount

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GET /api/cycle-counts/:id/export
// One CSV row per entry: item identity, location, expected/counted/variance,
// status, counter, adjustment reason, timestamp.
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		cc, _, err := svc.Get(id)
		if err != nil {
			return toHTTPError(err)
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)

		_ = w.Write([]string{
			"Item ID", "Item Name", "Zone", "Aisle", "Row", "Bin", "Unit",
			"Expected Qty", "Counted Qty", "Variance", "Status",
			"Counted By", "Adjustment Reason", "Counted At",
		})

		for _, e := range cc.Entries {
			row := entryResponse(e)
			countedQty, variance, countedAt := "", "", ""
			if row.CountedQty != nil {
				countedQty = strconv.Itoa(*row.CountedQty)
			}
			if row.Variance != nil {
				variance = strconv.Itoa(*row.Variance)
			}
			if e.CountedAt != nil {
				countedAt = e.CountedAt.Format(time.RFC3339)
			}

			_ = w.Write([]string{
				row.ItemBarcode, row.ItemName, row.Zone, row.Aisle, row.Row, row.Bin, row.Unit,
				strconv.Itoa(row.ExpectedQty), countedQty, variance, string(row.Status),
				row.CountedBy, row.AdjustmentReason, countedAt,
			})
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
		}

		filename := fmt.Sprintf("cycle-count-%s-%s.csv",
			strings.ReplaceAll(cc.Name, " ", "-"),
			time.Now().Format("2006-01-02"))

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
