package inventory

import (
	"strconv"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/scanlog"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID          uint                 `json:"id"`
	Barcode     string               `json:"barcode"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Quantity    int                  `json:"quantity"`
	Zone        string               `json:"zone"`
	Aisle       string               `json:"aisle"`
	Row         string               `json:"row"`
	Bin         string               `json:"bin"`
	Unit        string               `json:"unit"`
	Category    string               `json:"category"`
	Condition   models.ItemCondition `json:"condition"`
	MinStock    int                  `json:"min_stock"`
	CostPrice   *float64             `json:"cost_price"`
	SageItemID  string               `json:"sage_item_id"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

func itemResponse(item models.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Barcode:     item.Barcode,
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		Zone:        item.Zone,
		Aisle:       item.Aisle,
		Row:         item.Row,
		Bin:         item.Bin,
		Unit:        item.Unit,
		Category:    item.Category,
		Condition:   item.Condition,
		MinStock:    item.MinStock,
		CostPrice:   item.CostPrice,
		SageItemID:  item.SageItemID,
		CreatedAt:   item.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/items?search=...&category=...&barcode=...
// A barcode query returns the single matching item (or null); otherwise a
// filtered list capped at 200, newest-updated first, plus the distinct
// category list for the filter dropdown.
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if barcode := c.Query("barcode"); barcode != "" {
			var item models.InventoryItem
			if err := database.DB.Where("barcode = ?", barcode).First(&item).Error; err != nil {
				return c.JSON(fiber.Map{"item": nil})
			}
			return c.JSON(fiber.Map{"item": itemResponse(item)})
		}

		dbq := database.DB.Model(&models.InventoryItem{})

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("name LIKE ? OR barcode LIKE ? OR description LIKE ?", like, like, like)
		}
		if category := c.Query("category"); category != "" && category != "all" {
			dbq = dbq.Where("category = ?", category)
		}

		var items []models.InventoryItem
		if err := dbq.Order("updated_at DESC").Limit(200).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list items")
		}

		var categories []string
		database.DB.Model(&models.InventoryItem{}).
			Where("category <> ''").
			Distinct("category").
			Order("category ASC").
			Pluck("category", &categories)

		resp := make([]ItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, itemResponse(item))
		}

		return c.JSON(fiber.Map{
			"items":      resp,
			"categories": categories,
		})
	}
}

type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity"`
	Zone        *string  `json:"zone"`
	Aisle       *string  `json:"aisle"`
	Row         *string  `json:"row"`
	Bin         *string  `json:"bin"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	MinStock    *int     `json:"min_stock"`
	CostPrice   *float64 `json:"cost_price"`
}

// PUT /api/items/:id
// Barcode is deliberately not updatable; it is the item's identity.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || itemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name must not be blank")
			}
			item.Name = *body.Name
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
			}
			item.Quantity = *body.Quantity
		}
		if body.Zone != nil {
			item.Zone = *body.Zone
		}
		if body.Aisle != nil {
			item.Aisle = *body.Aisle
		}
		if body.Row != nil {
			item.Row = *body.Row
		}
		if body.Bin != nil {
			item.Bin = *body.Bin
		}
		if body.Unit != nil {
			item.Unit = *body.Unit
		}
		if body.Category != nil {
			item.Category = *body.Category
		}
		if body.Condition != nil {
			if !models.ValidCondition(*body.Condition) {
				return fiber.NewError(fiber.StatusBadRequest, "condition must be one of NEW, GOOD, FAIR, POOR, DAMAGED")
			}
			item.Condition = models.ItemCondition(*body.Condition)
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "min_stock must not be negative")
			}
			item.MinStock = *body.MinStock
		}
		if body.CostPrice != nil {
			item.CostPrice = body.CostPrice
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update item")
		}

		_ = scanlog.Write(scanlog.LogOptions{
			Barcode:         item.Barcode,
			Action:          models.ScanActionUpdated,
			ScannedByID:     userID,
			InventoryItemID: &item.ID,
		})

		return c.JSON(fiber.Map{"item": itemResponse(item)})
	}
}

// DELETE /api/items/:id
// Removes the item and its scan history. Cycle count entries keep their
// snapshot with a nulled item reference, so finished audits stay readable.
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || itemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		if err := database.DB.Where("inventory_item_id = ?", item.ID).Delete(&models.ScanLog{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete scan logs")
		}
		if err := database.DB.Model(&models.CycleCountEntry{}).
			Where("inventory_item_id = ?", item.ID).
			Update("inventory_item_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not detach cycle count entries")
		}
		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete item")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
