package scanlog

import (
	"strconv"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LogResponse struct {
	ID             uint              `json:"id"`
	Barcode        string            `json:"barcode"`
	Action         models.ScanAction `json:"action"`
	QuantityChange int               `json:"quantity_change"`
	Notes          string            `json:"notes"`
	ScannedBy      string            `json:"scanned_by"`
	ItemName       string            `json:"item_name"`
	CreatedAt      string            `json:"created_at"`
}

// GET /api/scan-logs?barcode=...&limit=50
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = parsed
		}
		if limit > 500 {
			limit = 500
		}

		dbq := database.DB.Model(&models.ScanLog{}).
			Preload("ScannedBy").
			Preload("InventoryItem")

		if barcode := c.Query("barcode"); barcode != "" {
			dbq = dbq.Where("barcode = ?", barcode)
		}

		var logs []models.ScanLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list scan logs")
		}

		resp := make([]LogResponse, 0, len(logs))
		for _, l := range logs {
			itemName := ""
			if l.InventoryItem != nil {
				itemName = l.InventoryItem.Name
			}
			resp = append(resp, LogResponse{
				ID:             l.ID,
				Barcode:        l.Barcode,
				Action:         l.Action,
				QuantityChange: l.QuantityChange,
				Notes:          l.Notes,
				ScannedBy:      l.ScannedBy.Name,
				ItemName:       itemName,
				CreatedAt:      l.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
