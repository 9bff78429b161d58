package models

import "time"

type ItemCondition string

const (
	ConditionNew     ItemCondition = "NEW"
	ConditionGood    ItemCondition = "GOOD"
	ConditionFair    ItemCondition = "FAIR"
	ConditionPoor    ItemCondition = "POOR"
	ConditionDamaged ItemCondition = "DAMAGED"
)

// ValidCondition reports whether s is one of the known condition values.
func ValidCondition(s string) bool {
	switch ItemCondition(s) {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// InventoryItem: one stock-keeping unit. Barcode is the natural key and
// never changes after creation; Quantity is the authoritative on-hand count.
type InventoryItem struct {
	ID          uint   `gorm:"primaryKey"`
	Barcode     string `gorm:"size:64;uniqueIndex;not null"`
	Name        string `gorm:"size:200;not null"`
	Description string `gorm:"size:1000"`
	Quantity    int    `gorm:"not null;default:0"` // never negative

	// Warehouse location, all optional free text
	Zone  string `gorm:"size:50;index"`
	Aisle string `gorm:"size:50"`
	Row   string `gorm:"size:50"`
	Bin   string `gorm:"size:50"`

	Unit      string        `gorm:"size:20"` // each, box, kg...
	Category  string        `gorm:"size:100;index"`
	Condition ItemCondition `gorm:"size:20;not null;default:GOOD"`
	MinStock  int           `gorm:"not null;default:0"` // reorder threshold, 0 = disabled
	CostPrice *float64

	SageItemID string `gorm:"size:64"` // reference in Sage Intacct after a sync

	CreatedByID uint `gorm:"index"`
	CreatedBy   User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
