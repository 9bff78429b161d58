package inventory

import (
	"errors"
	"strings"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/scanlog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ScanRequest struct {
	Barcode        string `json:"barcode"`
	Action         string `json:"action"` // CREATE, INCREMENT, DECREMENT, AUDIT
	QuantityChange int    `json:"quantity_change"`
	Notes          string `json:"notes"`

	// Only for CREATE
	Item *ScanItemPayload `json:"item"`
}

type ScanItemPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	Zone        string   `json:"zone"`
	Aisle       string   `json:"aisle"`
	Row         string   `json:"row"`
	Bin         string   `json:"bin"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	MinStock    int      `json:"min_stock"`
	CostPrice   *float64 `json:"cost_price"`
}

// POST /api/scans
// One endpoint for all scanner actions so the scanner UI stays a single
// round trip: create a new item, adjust quantity up or down, or log an
// audit-only sighting. Every branch appends a scan log row.
func ScanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ScanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Barcode = strings.TrimSpace(body.Barcode)
		if body.Barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
		}

		switch body.Action {
		case "CREATE":
			return scanCreate(c, userID, body)
		case "INCREMENT":
			return scanAdjust(c, userID, body, 1)
		case "DECREMENT":
			return scanAdjust(c, userID, body, -1)
		case "AUDIT":
			return scanAudit(c, userID, body)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid action. Use CREATE, INCREMENT, DECREMENT or AUDIT")
		}
	}
}

func scanCreate(c *fiber.Ctx, userID uint, body ScanRequest) error {
	if body.Item == nil || strings.TrimSpace(body.Item.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "item.name is required for CREATE")
	}

	quantity := body.Item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	condition := models.ConditionGood
	if body.Item.Condition != "" {
		if !models.ValidCondition(body.Item.Condition) {
			return fiber.NewError(fiber.StatusBadRequest, "condition must be one of NEW, GOOD, FAIR, POOR, DAMAGED")
		}
		condition = models.ItemCondition(body.Item.Condition)
	}

	var existing models.InventoryItem
	if err := database.DB.Where("barcode = ?", body.Barcode).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "An item with this barcode already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not check barcode")
	}

	item := models.InventoryItem{
		Barcode:     body.Barcode,
		Name:        strings.TrimSpace(body.Item.Name),
		Description: body.Item.Description,
		Quantity:    quantity,
		Zone:        body.Item.Zone,
		Aisle:       body.Item.Aisle,
		Row:         body.Item.Row,
		Bin:         body.Item.Bin,
		Unit:        body.Item.Unit,
		Category:    body.Item.Category,
		Condition:   condition,
		MinStock:    body.Item.MinStock,
		CostPrice:   body.Item.CostPrice,
		CreatedByID: userID,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not create item")
	}

	_ = scanlog.Write(scanlog.LogOptions{
		Barcode:         item.Barcode,
		Action:          models.ScanActionCreated,
		QuantityChange:  quantity,
		Notes:           body.Notes,
		ScannedByID:     userID,
		InventoryItemID: &item.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item":   itemResponse(item),
		"action": "created",
	})
}

func scanAdjust(c *fiber.Ctx, userID uint, body ScanRequest, direction int) error {
	var item models.InventoryItem
	if err := database.DB.Where("barcode = ?", body.Barcode).First(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Item not found")
	}

	qty := body.QuantityChange
	if qty < 0 {
		qty = -qty
	}
	if qty == 0 {
		qty = 1
	}

	var change int
	if direction > 0 {
		item.Quantity += qty
		change = qty
	} else {
		// floor at zero, quantity is never negative
		if qty > item.Quantity {
			qty = item.Quantity
		}
		item.Quantity -= qty
		change = -qty
	}

	if err := database.DB.Save(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update quantity")
	}

	action := models.ScanActionIncremented
	actionLabel := "incremented"
	if direction < 0 {
		action = models.ScanActionDecremented
		actionLabel = "decremented"
	}

	_ = scanlog.Write(scanlog.LogOptions{
		Barcode:         item.Barcode,
		Action:          action,
		QuantityChange:  change,
		Notes:           body.Notes,
		ScannedByID:     userID,
		InventoryItemID: &item.ID,
	})

	return c.JSON(fiber.Map{
		"item":   itemResponse(item),
		"action": actionLabel,
	})
}

func scanAudit(c *fiber.Ctx, userID uint, body ScanRequest) error {
	// An audit sighting is logged even for unknown barcodes.
	var itemID *uint
	var item models.InventoryItem
	if err := database.DB.Where("barcode = ?", body.Barcode).First(&item).Error; err == nil {
		itemID = &item.ID
	}

	_ = scanlog.Write(scanlog.LogOptions{
		Barcode:         body.Barcode,
		Action:          models.ScanActionAudited,
		Notes:           body.Notes,
		ScannedByID:     userID,
		InventoryItemID: itemID,
	})

	return c.JSON(fiber.Map{"action": "audited"})
}
