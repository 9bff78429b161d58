package inventory

import (
	"path/filepath"
	"strings"

	"stocktrack-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// POST /api/import  (multipart: file, mode=skip|update)
func ImportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
		}

		mode := c.FormValue("mode", "skip")
		if mode != "skip" && mode != "update" {
			return fiber.NewError(fiber.StatusBadRequest, "mode must be skip or update")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not open uploaded file")
		}
		defer file.Close()

		var headers []string
		var rows [][]string
		switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
		case ".xlsx", ".xls":
			headers, rows, err = parseXLSX(file)
		case ".csv", ".tsv", ".txt", "":
			headers, rows, err = parseCSV(file)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported file type. Upload a CSV or XLSX file")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "File contains no data rows")
		}

		result, err := importRows(headers, rows, mode, userID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(result)
	}
}

// GET /api/import/template
// Downloadable CSV with the expected columns and a few sample rows.
func ImportTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		template := strings.Join([]string{
			"Barcode,Name,Description,Quantity,Zone,Aisle,Row,Bin,Unit,Category,Condition,Min Stock,Cost Price",
			`0123456789012,Sample Widget,A sample item,10,A,1,2,B3,pcs,Hardware,GOOD,5,2.50`,
			`9876543210987,Sample Gadget,Another sample,25,B,3,1,C1,box,Electronics,NEW,10,14.99`,
			`5555555555555,Sample Gizmo,,1,,,,,pcs,,FAIR,0,`,
		}, "\n") + "\n"

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="import-template.csv"`)
		return c.SendString(template)
	}
}
