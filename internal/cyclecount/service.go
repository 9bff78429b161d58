package cyclecount

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"stocktrack-backend/internal/models"

	"gorm.io/gorm"
)

// Allowed lifecycle transitions. NOT_STARTED -> IN_PROGRESS is never
// requested by clients; RecordCount performs it as a side effect.
var validTransitions = map[models.CycleCountStatus][]models.CycleCountStatus{
	models.CycleCountNotStarted: {models.CycleCountInProgress, models.CycleCountVoided},
	models.CycleCountInProgress: {models.CycleCountCounted, models.CycleCountVoided},
	models.CycleCountCounted:    {models.CycleCountReconciled, models.CycleCountVoided},
	models.CycleCountReconciled: {},
	models.CycleCountVoided:     {},
}

func transitionAllowed(from, to models.CycleCountStatus) bool {
	for _, t := range validTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Summary aggregates over one session's entries.
type Summary struct {
	TotalEntries   int `json:"total_entries"`
	CountedEntries int `json:"counted_entries"`
	SkippedEntries int `json:"skipped_entries"`
	PendingEntries int `json:"pending_entries"`
	VarianceCount  int `json:"variance_count"`
	TotalVariance  int `json:"total_variance"` // sum of |variance|, magnitude not net
}

// Overview is the listing row: session fields plus progress counters.
type Overview struct {
	ID             uint                    `json:"id"`
	Name           string                  `json:"name"`
	Status         models.CycleCountStatus `json:"status"`
	FilterType     string                  `json:"filter_type"`
	FilterValue    string                  `json:"filter_value"`
	Notes          string                  `json:"notes"`
	CreatedBy      string                  `json:"created_by"`
	CreatedAt      time.Time               `json:"created_at"`
	StartedAt      *time.Time              `json:"started_at"`
	CompletedAt    *time.Time              `json:"completed_at"`
	TotalEntries   int                     `json:"total_entries"`
	CountedEntries int                     `json:"counted_entries"`
	VarianceCount  int                     `json:"variance_count"`
	Progress       int                     `json:"progress"` // round(counted/total*100)
}

// ReconcileResult reports what the reconciliation batch did.
type ReconcileResult struct {
	Applied      int `json:"applied"`       // items updated + logged
	ItemsDeleted int `json:"items_deleted"` // counted entries whose item no longer exists
}

// Service is the cycle count engine. It owns no ambient state: the DB
// handle is injected and every mutating call takes the acting user's id.
type Service struct {
	db           *gorm.DB
	allowRecount bool
}

func NewService(db *gorm.DB, allowRecount bool) *Service {
	return &Service{db: db, allowRecount: allowRecount}
}

// Create snapshots every item matching the filter into a new NOT_STARTED
// session. The expected quantities are frozen here and never refreshed.
func (s *Service) Create(name string, filter Filter, notes string, actorID uint) (*models.CycleCount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	}

	var items []models.InventoryItem
	if err := filter.apply(s.db.Model(&models.InventoryItem{})).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("item selection failed: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	count := models.CycleCount{
		Name:        strings.TrimSpace(name),
		Status:      models.CycleCountNotStarted,
		FilterType:  string(filter.Type),
		FilterValue: filter.Value,
		Notes:       notes,
		CreatedByID: actorID,
	}

	count.Entries = make([]models.CycleCountEntry, 0, len(items))
	for _, item := range items {
		itemID := item.ID
		count.Entries = append(count.Entries, models.CycleCountEntry{
			InventoryItemID: &itemID,
			ExpectedQty:     item.Quantity,
			Status:          models.EntryPending,
		})
	}

	if err := s.db.Create(&count).Error; err != nil {
		return nil, fmt.Errorf("cycle count create failed: %w", err)
	}

	return &count, nil
}

// List returns sessions newest first, optionally filtered by status, each
// annotated with its progress counters.
func (s *Service) List(statusFilter string) ([]Overview, error) {
	dbq := s.db.Model(&models.CycleCount{}).
		Preload("CreatedBy").
		Preload("Entries")
	if statusFilter != "" {
		dbq = dbq.Where("status = ?", statusFilter)
	}

	var counts []models.CycleCount
	if err := dbq.Order("created_at DESC").Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("cycle count list failed: %w", err)
	}

	overviews := make([]Overview, 0, len(counts))
	for _, cc := range counts {
		total := len(cc.Entries)
		counted, withVariance := 0, 0
		for _, e := range cc.Entries {
			if e.Status != models.EntryCounted {
				continue
			}
			counted++
			if e.Variance != nil && *e.Variance != 0 {
				withVariance++
			}
		}

		progress := 0
		if total > 0 {
			progress = int(math.Round(float64(counted) / float64(total) * 100))
		}

		overviews = append(overviews, Overview{
			ID:             cc.ID,
			Name:           cc.Name,
			Status:         cc.Status,
			FilterType:     cc.FilterType,
			FilterValue:    cc.FilterValue,
			Notes:          cc.Notes,
			CreatedBy:      cc.CreatedBy.Name,
			CreatedAt:      cc.CreatedAt,
			StartedAt:      cc.StartedAt,
			CompletedAt:    cc.CompletedAt,
			TotalEntries:   total,
			CountedEntries: counted,
			VarianceCount:  withVariance,
			Progress:       progress,
		})
	}

	return overviews, nil
}

// Get loads one session with entries in insertion order plus its summary.
func (s *Service) Get(id uint) (*models.CycleCount, Summary, error) {
	var cc models.CycleCount
	err := s.db.
		Preload("CreatedBy").
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Entries.InventoryItem").
		Preload("Entries.CountedBy").
		First(&cc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Summary{}, ErrNotFound
	}
	if err != nil {
		return nil, Summary{}, fmt.Errorf("cycle count load failed: %w", err)
	}

	return &cc, summarize(cc.Entries), nil
}

func summarize(entries []models.CycleCountEntry) Summary {
	sum := Summary{TotalEntries: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case models.EntryCounted:
			sum.CountedEntries++
			if e.Variance != nil && *e.Variance != 0 {
				sum.VarianceCount++
				if *e.Variance < 0 {
					sum.TotalVariance -= *e.Variance
				} else {
					sum.TotalVariance += *e.Variance
				}
			}
		case models.EntrySkipped:
			sum.SkippedEntries++
		default:
			sum.PendingEntries++
		}
	}
	return sum
}

// RecordCount stores the counted quantity on one entry and computes its
// variance. The first count of a session flips it to IN_PROGRESS; this is
// the only implicit transition in the lifecycle.
func (s *Service) RecordCount(entryID uint, countedQty int, adjustmentReason string, actorID uint) (*models.CycleCountEntry, error) {
	if countedQty < 0 {
		return nil, &ValidationError{Field: "counted_qty", Reason: "must be a non-negative integer"}
	}

	var entry models.CycleCountEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("entry load failed: %w", err)
		}

		var parent models.CycleCount
		if err := tx.First(&parent, entry.CycleCountID).Error; err != nil {
			return fmt.Errorf("session load failed: %w", err)
		}

		if entry.Status == models.EntryCounted && !s.allowRecount {
			return &InvalidStateError{Op: "recount entry", Status: string(entry.Status)}
		}

		now := time.Now()
		variance := countedQty - entry.ExpectedQty
		entry.CountedQty = &countedQty
		entry.Variance = &variance
		entry.Status = models.EntryCounted
		entry.AdjustmentReason = adjustmentReason
		entry.CountedByID = &actorID
		entry.CountedAt = &now

		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("entry update failed: %w", err)
		}

		if parent.Status == models.CycleCountNotStarted {
			if err := tx.Model(&parent).Updates(map[string]interface{}{
				"status":     models.CycleCountInProgress,
				"started_at": now,
			}).Error; err != nil {
				return fmt.Errorf("session auto-start failed: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadEntry(entry.ID)
}

// Skip marks one entry SKIPPED without a variance. Skipping deliberately
// does not auto-start the session; only a real count does.
func (s *Service) Skip(entryID uint) (*models.CycleCountEntry, error) {
	var entry models.CycleCountEntry
	if err := s.db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("entry load failed: %w", err)
	}

	entry.Status = models.EntrySkipped
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("entry update failed: %w", err)
	}

	return s.loadEntry(entry.ID)
}

// loadEntry returns one entry with its item and counter populated, the
// shape responses are built from.
func (s *Service) loadEntry(id uint) (*models.CycleCountEntry, error) {
	var entry models.CycleCountEntry
	if err := s.db.
		Preload("InventoryItem").
		Preload("CountedBy").
		First(&entry, id).Error; err != nil {
		return nil, fmt.Errorf("entry reload failed: %w", err)
	}
	return &entry, nil
}

// Transition applies an explicit lifecycle change. Reconciling runs the
// whole write-back batch (item quantities, AUDITED scan logs, status,
// completedAt) inside a single transaction, so either everything lands or
// nothing does.
func (s *Service) Transition(id uint, target models.CycleCountStatus, actorID uint) (*models.CycleCount, *ReconcileResult, error) {
	var cc models.CycleCount
	var result *ReconcileResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("session load failed: %w", err)
		}

		if !transitionAllowed(cc.Status, target) {
			return &InvalidTransitionError{From: cc.Status, To: target}
		}

		now := time.Now()
		cc.Status = target
		if target == models.CycleCountCounted || target == models.CycleCountReconciled {
			cc.CompletedAt = &now
		}

		if target == models.CycleCountReconciled {
			r, err := reconcile(tx, &cc, actorID)
			if err != nil {
				return err
			}
			result = r
		}

		if err := tx.Save(&cc).Error; err != nil {
			return fmt.Errorf("session update failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &cc, result, nil
}

// reconcile writes counted quantities back to inventory. Only discrepancies
// are applied and logged: a zero-variance entry is already correct and
// leaves no trace at reconciliation time.
func reconcile(tx *gorm.DB, cc *models.CycleCount, actorID uint) (*ReconcileResult, error) {
	var entries []models.CycleCountEntry
	if err := tx.
		Preload("InventoryItem").
		Where("cycle_count_id = ? AND status = ? AND variance <> 0", cc.ID, models.EntryCounted).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("entry selection failed: %w", err)
	}

	result := &ReconcileResult{}
	for _, entry := range entries {
		if entry.InventoryItem == nil || entry.CountedQty == nil {
			result.ItemsDeleted++
			continue
		}

		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", *entry.InventoryItemID).
			Update("quantity", *entry.CountedQty).Error; err != nil {
			return nil, fmt.Errorf("quantity write for item %d failed: %w", *entry.InventoryItemID, err)
		}

		note := fmt.Sprintf("Cycle count reconciliation: %s. Expected: %d, Counted: %d.",
			cc.Name, entry.ExpectedQty, *entry.CountedQty)
		if entry.AdjustmentReason != "" {
			note += " " + entry.AdjustmentReason
		}

		logRow := models.ScanLog{
			Barcode:         entry.InventoryItem.Barcode,
			Action:          models.ScanActionAudited,
			QuantityChange:  *entry.Variance,
			Notes:           note,
			ScannedByID:     actorID,
			InventoryItemID: entry.InventoryItemID,
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return nil, fmt.Errorf("audit log for item %d failed: %w", *entry.InventoryItemID, err)
		}

		result.Applied++
	}

	return result, nil
}

// Delete removes a session and its entries. Sessions with recorded
// counting activity are immutable audit history and cannot be deleted.
func (s *Service) Delete(id uint) error {
	var cc models.CycleCount
	if err := s.db.First(&cc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("session load failed: %w", err)
	}

	if cc.Status != models.CycleCountNotStarted && cc.Status != models.CycleCountVoided {
		return &InvalidStateError{Op: "delete cycle count", Status: string(cc.Status)}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cycle_count_id = ?", cc.ID).Delete(&models.CycleCountEntry{}).Error; err != nil {
			return fmt.Errorf("entry delete failed: %w", err)
		}
		if err := tx.Delete(&cc).Error; err != nil {
			return fmt.Errorf("session delete failed: %w", err)
		}
		return nil
	})
}
