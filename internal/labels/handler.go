package labels

import (
	"fmt"
	"html"
	"strings"
	"time"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// labelSize is a DYMO LabelWriter stock size, dimensions in inches.
type labelSize struct {
	Width, Height float64
	Name          string
}

var labelSizes = map[string]labelSize{
	"30252": {3.5, 1.125, "Address 1-1/8 x 3-1/2"},
	"30336": {2.125, 1.0, "Multipurpose 1 x 2-1/8"},
	"30332": {1.0, 1.0, "Square 1 x 1"},
	"30256": {4.0, 2.3125, "Shipping 2-5/16 x 4"},
}

type PrintRequest struct {
	ItemIDs      []uint `json:"item_ids"`
	Size         string `json:"size"`
	Copies       int    `json:"copies"`
	ShowName     *bool  `json:"show_name"`
	ShowLocation *bool  `json:"show_location"`
	ShowQty      bool   `json:"show_qty"`
	ShowDate     bool   `json:"show_date"`
	CustomText   string `json:"custom_text"`
	FontSize     int    `json:"font_size"`
}

type renderOptions struct {
	size         labelSize
	copies       int
	showName     bool
	showLocation bool
	showQty      bool
	showDate     bool
	customText   string
	fontSize     int
}

// POST /api/labels
// Returns a self-contained HTML sheet sized for DYMO label stock. The page
// renders barcodes client side with JsBarcode and triggers the print dialog
// on load, so the browser's DYMO driver handles the rest.
func PrintHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PrintRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.ItemIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_ids is required")
		}

		opts := renderOptions{
			size:         labelSizes["30252"],
			copies:       body.Copies,
			showName:     body.ShowName == nil || *body.ShowName,
			showLocation: body.ShowLocation == nil || *body.ShowLocation,
			showQty:      body.ShowQty,
			showDate:     body.ShowDate,
			customText:   body.CustomText,
			fontSize:     body.FontSize,
		}
		if size, ok := labelSizes[body.Size]; ok {
			opts.size = size
		}
		if opts.copies < 1 {
			opts.copies = 1
		}
		if opts.copies > 50 {
			opts.copies = 50
		}
		if opts.fontSize < 6 || opts.fontSize > 24 {
			opts.fontSize = 10
		}

		var items []models.InventoryItem
		if err := database.DB.Where("id IN ?", body.ItemIDs).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load items")
		}
		if len(items) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No matching items")
		}

		page := renderLabelSheet(items, opts)
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.SendString(page)
	}
}

func locationLine(item models.InventoryItem) string {
	parts := make([]string, 0, 4)
	if item.Zone != "" {
		parts = append(parts, "Zone "+item.Zone)
	}
	if item.Aisle != "" {
		parts = append(parts, "Aisle "+item.Aisle)
	}
	if item.Row != "" {
		parts = append(parts, "Row "+item.Row)
	}
	if item.Bin != "" {
		parts = append(parts, "Bin "+item.Bin)
	}
	return strings.Join(parts, " / ")
}

func renderLabelSheet(items []models.InventoryItem, opts renderOptions) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Labels</title>\n")
	b.WriteString(`<script src="https://cdn.jsdelivr.net/npm/jsbarcode@3.11.6/dist/JsBarcode.all.min.js"></script>` + "\n")
	fmt.Fprintf(&b, `<style>
@page { size: %.3fin %.4fin; margin: 0; }
body { margin: 0; font-family: Arial, sans-serif; }
.label {
  width: %.3fin; height: %.4fin;
  display: flex; flex-direction: column; align-items: center; justify-content: center;
  overflow: hidden; page-break-after: always; box-sizing: border-box; padding: 0.04in;
}
.label .name { font-size: %dpt; font-weight: bold; text-align: center; max-width: 100%%; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
.label .location, .label .qty, .label .date, .label .custom { font-size: %dpt; text-align: center; }
.label svg { max-width: 100%%; }
</style>
`, opts.size.Width, opts.size.Height, opts.size.Width, opts.size.Height, opts.fontSize, opts.fontSize-2)
	b.WriteString("</head>\n<body>\n")

	today := time.Now().Format("2006-01-02")
	labelIdx := 0
	for _, item := range items {
		for n := 0; n < opts.copies; n++ {
			b.WriteString(`<div class="label">` + "\n")
			if opts.showName {
				fmt.Fprintf(&b, `<div class="name">%s</div>`+"\n", html.EscapeString(item.Name))
			}
			fmt.Fprintf(&b, `<svg id="bc%d" data-barcode="%s"></svg>`+"\n", labelIdx, html.EscapeString(item.Barcode))
			if opts.showLocation {
				if loc := locationLine(item); loc != "" {
					fmt.Fprintf(&b, `<div class="location">%s</div>`+"\n", html.EscapeString(loc))
				}
			}
			if opts.showQty {
				fmt.Fprintf(&b, `<div class="qty">Qty: %d</div>`+"\n", item.Quantity)
			}
			if opts.showDate {
				fmt.Fprintf(&b, `<div class="date">%s</div>`+"\n", today)
			}
			if opts.customText != "" {
				fmt.Fprintf(&b, `<div class="custom">%s</div>`+"\n", html.EscapeString(opts.customText))
			}
			b.WriteString("</div>\n")
			labelIdx++
		}
	}

	barcodeHeight := int(opts.size.Height * 28)
	fmt.Fprintf(&b, `<script>
document.querySelectorAll("svg[data-barcode]").forEach(function (el) {
  JsBarcode(el, el.dataset.barcode, { format: "CODE128", height: %d, displayValue: true, fontSize: 10, margin: 2 });
});
window.onload = function () { window.print(); };
</script>
`, barcodeHeight)
	b.WriteString("</body>\n</html>\n")

	return b.String()
}
