package scanlog

import (
	"fmt"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"
)

type LogOptions struct {
	Barcode         string
	Action          models.ScanAction
	QuantityChange  int
	Notes           string
	ScannedByID     uint
	InventoryItemID *uint
}

// Write appends one row to the scan log. Callers treat this as
// fire-and-forget: a failed log write must not undo the inventory change
// it describes, so most call sites ignore the returned error.
func Write(opts LogOptions) error {
	row := models.ScanLog{
		Barcode:         opts.Barcode,
		Action:          opts.Action,
		QuantityChange:  opts.QuantityChange,
		Notes:           opts.Notes,
		ScannedByID:     opts.ScannedByID,
		InventoryItemID: opts.InventoryItemID,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("scan log write failed: %w", err)
	}

	return nil
}
