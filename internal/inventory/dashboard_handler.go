package inventory

import (
	"time"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RecentActivity struct {
	ID        uint              `json:"id"`
	Barcode   string            `json:"barcode"`
	Action    models.ScanAction `json:"action"`
	ItemName  string            `json:"item_name"`
	CreatedAt string            `json:"created_at"`
}

// GET /api/dashboard/stats
func DashboardStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var totalItems int64
		if err := database.DB.Model(&models.InventoryItem{}).Count(&totalItems).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
		}

		var totalQuantity int64
		database.DB.Model(&models.InventoryItem{}).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&totalQuantity)

		var lowStockCount int64
		database.DB.Model(&models.InventoryItem{}).
			Where("min_stock > 0 AND quantity <= min_stock").
			Count(&lowStockCount)

		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		var scansToday int64
		database.DB.Model(&models.ScanLog{}).
			Where("created_at >= ?", midnight).
			Count(&scansToday)

		var recent []models.ScanLog
		database.DB.Model(&models.ScanLog{}).
			Preload("InventoryItem").
			Order("created_at DESC").
			Limit(10).
			Find(&recent)

		activity := make([]RecentActivity, 0, len(recent))
		for _, l := range recent {
			itemName := "Unknown"
			if l.InventoryItem != nil {
				itemName = l.InventoryItem.Name
			}
			activity = append(activity, RecentActivity{
				ID:        l.ID,
				Barcode:   l.Barcode,
				Action:    l.Action,
				ItemName:  itemName,
				CreatedAt: l.CreatedAt.Format(time.RFC3339),
			})
		}

		return c.JSON(fiber.Map{
			"total_items":     totalItems,
			"total_quantity":  totalQuantity,
			"low_stock_count": lowStockCount,
			"scans_today":     scansToday,
			"recent_activity": activity,
		})
	}
}
