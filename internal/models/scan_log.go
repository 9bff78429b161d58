package models

import "time"

type ScanAction string

const (
	ScanActionCreated     ScanAction = "CREATED"
	ScanActionIncremented ScanAction = "INCREMENTED"
	ScanActionDecremented ScanAction = "DECREMENTED"
	ScanActionUpdated     ScanAction = "UPDATED"
	ScanActionAudited     ScanAction = "AUDITED"
)

// ScanLog: append-only trail of every inventory-affecting action.
// Rows are never updated or individually deleted; deleting an item removes
// its rows as part of the item deletion.
type ScanLog struct {
	ID        uint       `gorm:"primaryKey"`
	Barcode   string     `gorm:"size:64;index;not null"`
	Action    ScanAction `gorm:"size:20;not null"`

	// Signed delta this action applied to the item quantity (0 for
	// UPDATED/AUDITED log-only rows).
	QuantityChange int
	Notes          string `gorm:"size:500"`

	ScannedByID uint `gorm:"index;not null"`
	ScannedBy   User

	// Nullable: an AUDIT scan of an unknown barcode has no item.
	InventoryItemID *uint `gorm:"index"`
	InventoryItem   *InventoryItem

	CreatedAt time.Time
}
