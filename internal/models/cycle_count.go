package models

import "time"

type CycleCountStatus string

const (
	CycleCountNotStarted CycleCountStatus = "NOT_STARTED"
	CycleCountInProgress CycleCountStatus = "IN_PROGRESS"
	CycleCountCounted    CycleCountStatus = "COUNTED"
	CycleCountReconciled CycleCountStatus = "RECONCILED"
	CycleCountVoided     CycleCountStatus = "VOIDED"
)

type CycleCountEntryStatus string

const (
	EntryPending CycleCountEntryStatus = "PENDING"
	EntryCounted CycleCountEntryStatus = "COUNTED"
	EntrySkipped CycleCountEntryStatus = "SKIPPED"
)

// CycleCount: a point-in-time audit exercise over a filtered subset of
// inventory. Entries are snapshotted at creation and owned exclusively by
// the session (deleted with it, never independently).
type CycleCount struct {
	ID     uint             `gorm:"primaryKey"`
	Name   string           `gorm:"size:200;not null"`
	Status CycleCountStatus `gorm:"size:20;not null;default:NOT_STARTED;index"`

	// Filter used to select the items, kept for display only; the engine
	// resolves it into entries once, at creation.
	FilterType  string `gorm:"size:20;not null;default:all"`
	FilterValue string `gorm:"size:100"`

	Notes string `gorm:"size:1000"`

	CreatedByID uint `gorm:"index;not null"`
	CreatedBy   User

	StartedAt   *time.Time // stamped on the first recorded count
	CompletedAt *time.Time // stamped on COUNTED and again on RECONCILED
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Entries []CycleCountEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// CycleCountEntry: one item's expected-vs-actual record inside a session.
// ExpectedQty is frozen at session creation and never refreshed.
type CycleCountEntry struct {
	ID           uint `gorm:"primaryKey"`
	CycleCountID uint `gorm:"index;not null"`

	// Nullable so a deleted item does not erase count history.
	InventoryItemID *uint          `gorm:"index"`
	InventoryItem   *InventoryItem `gorm:"constraint:OnDelete:SET NULL"`

	ExpectedQty int                   `gorm:"not null"`
	CountedQty  *int                  // nil until counted
	Variance    *int                  // countedQty - expectedQty, nil until counted
	Status      CycleCountEntryStatus `gorm:"size:20;not null;default:PENDING"`

	AdjustmentReason string `gorm:"size:255"`

	CountedByID *uint
	CountedBy   *User
	CountedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
