package sage

import (
	"errors"
	"fmt"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SyncRequest struct {
	ItemIDs []uint `json:"item_ids"`
}

type SyncResult struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

// GET /api/sage/status
func StatusHandler(client *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !client.Configured() {
			return c.JSON(fiber.Map{"configured": false, "connected": false})
		}

		if err := client.TestConnection(); err != nil {
			return c.JSON(fiber.Map{
				"configured": true,
				"connected":  false,
				"error":      err.Error(),
			})
		}

		return c.JSON(fiber.Map{"configured": true, "connected": true})
	}
}

// GET /api/sage/items?page_size=100
func ListItemsHandler(client *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !client.Configured() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Sage Intacct is not configured")
		}

		items, err := client.FetchItems(c.QueryInt("page_size", 100))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		return c.JSON(fiber.Map{"items": items})
	}
}

// POST /api/sage/sync
// Pushes the selected items (or all, if item_ids is empty) to Intacct.
// Per-item failures are collected so one bad record does not stop the batch.
func SyncHandler(client *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !client.Configured() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Sage Intacct is not configured")
		}

		var body SyncRequest
		if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		q := database.DB.Model(&models.InventoryItem{})
		if len(body.ItemIDs) > 0 {
			q = q.Where("id IN ?", body.ItemIDs)
		}

		var items []models.InventoryItem
		if err := q.Order("id ASC").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load items")
		}
		if len(items) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No matching items")
		}

		result := SyncResult{Errors: []string{}}
		for i := range items {
			item := &items[i]

			recordNo, err := client.SyncItem(item)
			if err != nil {
				if errors.Is(err, ErrNotConfigured) {
					return fiber.NewError(fiber.StatusServiceUnavailable, "Sage Intacct is not configured")
				}
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Barcode, err))
				continue
			}

			if recordNo != "" && recordNo != item.SageItemID {
				if err := database.DB.Model(item).Update("sage_item_id", recordNo).Error; err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: synced but could not save sage id", item.Barcode))
					continue
				}
			}
			result.Synced++
		}

		return c.JSON(result)
	}
}
