package inventory

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Barcode", "Name", "Description", "Quantity",
	"Bin", "Row", "Aisle", "Zone",
	"Unit", "Category", "Condition", "Min Stock", "Cost Price",
	"Sage Item ID", "Created By", "Total Scans", "Created At", "Updated At",
}

func exportRow(item models.InventoryItem, scanCount int64) []string {
	costPrice := ""
	if item.CostPrice != nil {
		costPrice = strconv.FormatFloat(*item.CostPrice, 'f', -1, 64)
	}
	createdBy := item.CreatedBy.Name
	if createdBy == "" {
		createdBy = item.CreatedBy.Email
	}

	return []string{
		item.Barcode, item.Name, item.Description, strconv.Itoa(item.Quantity),
		item.Bin, item.Row, item.Aisle, item.Zone,
		item.Unit, item.Category, string(item.Condition), strconv.Itoa(item.MinStock), costPrice,
		item.SageItemID, createdBy, strconv.FormatInt(scanCount, 10),
		item.CreatedAt.Format(time.RFC3339), item.UpdatedAt.Format(time.RFC3339),
	}
}

func loadExportItems() ([]models.InventoryItem, map[uint]int64, error) {
	var items []models.InventoryItem
	if err := database.DB.Preload("CreatedBy").Order("name ASC").Find(&items).Error; err != nil {
		return nil, nil, err
	}

	type scanCount struct {
		InventoryItemID uint
		Total           int64
	}
	var counts []scanCount
	database.DB.Model(&models.ScanLog{}).
		Select("inventory_item_id, COUNT(*) AS total").
		Where("inventory_item_id IS NOT NULL").
		Group("inventory_item_id").
		Scan(&counts)

	countByItem := make(map[uint]int64, len(counts))
	for _, sc := range counts {
		countByItem[sc.InventoryItemID] = sc.Total
	}

	return items, countByItem, nil
}

// GET /api/export/csv
func ExportCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, scanCounts, err := loadExportItems()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load items")
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write(exportHeaders)
		for _, item := range items {
			_ = w.Write(exportRow(item, scanCounts[item.ID]))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
		}

		filename := fmt.Sprintf("inventory-%s.csv", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/export/xlsx
func ExportXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, scanCounts, err := loadExportItems()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load items")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Inventory"
		f.SetSheetName(f.GetSheetName(0), sheet)

		for col, header := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(sheet, cell, header)
		}
		for rowIdx, item := range items {
			for col, value := range exportRow(item, scanCounts[item.ID]) {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				_ = f.SetCellValue(sheet, cell, value)
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}

		filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
