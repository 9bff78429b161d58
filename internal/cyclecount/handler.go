package cyclecount

import (
	"errors"
	"strconv"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// toHTTPError maps the engine's error taxonomy onto fiber errors so every
// handler fails the same way.
func toHTTPError(err error) error {
	var (
		validationErr *ValidationError
		transitionErr *InvalidTransitionError
		stateErr      *InvalidStateError
	)

	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Cycle count not found")
	case errors.Is(err, ErrEmptySelection),
		errors.As(err, &validationErr),
		errors.As(err, &transitionErr),
		errors.As(err, &stateErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Cycle count operation failed")
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

type CreateRequest struct {
	Name        string `json:"name"`
	FilterType  string `json:"filter_type"`
	FilterValue string `json:"filter_value"`
	Notes       string `json:"notes"`
}

type EntryResponse struct {
	ID               uint                         `json:"id"`
	ItemBarcode      string                       `json:"item_barcode"`
	ItemName         string                       `json:"item_name"`
	Zone             string                       `json:"zone"`
	Aisle            string                       `json:"aisle"`
	Row              string                       `json:"row"`
	Bin              string                       `json:"bin"`
	Unit             string                       `json:"unit"`
	ExpectedQty      int                          `json:"expected_qty"`
	CountedQty       *int                         `json:"counted_qty"`
	Variance         *int                         `json:"variance"`
	Status           models.CycleCountEntryStatus `json:"status"`
	AdjustmentReason string                       `json:"adjustment_reason"`
	CountedBy        string                       `json:"counted_by"`
	CountedAt        *string                      `json:"counted_at"`
}

func entryResponse(e models.CycleCountEntry) EntryResponse {
	resp := EntryResponse{
		ID:               e.ID,
		ExpectedQty:      e.ExpectedQty,
		CountedQty:       e.CountedQty,
		Variance:         e.Variance,
		Status:           e.Status,
		AdjustmentReason: e.AdjustmentReason,
	}
	if e.InventoryItem != nil {
		resp.ItemBarcode = e.InventoryItem.Barcode
		resp.ItemName = e.InventoryItem.Name
		resp.Zone = e.InventoryItem.Zone
		resp.Aisle = e.InventoryItem.Aisle
		resp.Row = e.InventoryItem.Row
		resp.Bin = e.InventoryItem.Bin
		resp.Unit = e.InventoryItem.Unit
	} else {
		resp.ItemName = "(item deleted)"
	}
	if e.CountedBy != nil {
		resp.CountedBy = e.CountedBy.Name
	}
	if e.CountedAt != nil {
		formatted := e.CountedAt.Format("2006-01-02 15:04:05")
		resp.CountedAt = &formatted
	}
	return resp
}

// POST /api/cycle-counts
func CreateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		filter, err := ParseFilter(body.FilterType, body.FilterValue)
		if err != nil {
			return toHTTPError(err)
		}

		cc, err := svc.Create(body.Name, filter, body.Notes, userID)
		if err != nil {
			return toHTTPError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":           cc.ID,
			"name":         cc.Name,
			"status":       cc.Status,
			"filter_type":  cc.FilterType,
			"filter_value": cc.FilterValue,
			"entry_count":  len(cc.Entries),
		})
	}
}

// GET /api/cycle-counts?status=...
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		overviews, err := svc.List(c.Query("status"))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(fiber.Map{"cycle_counts": overviews})
	}
}

// GET /api/cycle-counts/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		cc, summary, err := svc.Get(id)
		if err != nil {
			return toHTTPError(err)
		}

		entries := make([]EntryResponse, 0, len(cc.Entries))
		for _, e := range cc.Entries {
			entries = append(entries, entryResponse(e))
		}

		return c.JSON(fiber.Map{
			"id":           cc.ID,
			"name":         cc.Name,
			"status":       cc.Status,
			"filter_type":  cc.FilterType,
			"filter_value": cc.FilterValue,
			"notes":        cc.Notes,
			"created_by":   cc.CreatedBy.Name,
			"created_at":   cc.CreatedAt,
			"started_at":   cc.StartedAt,
			"completed_at": cc.CompletedAt,
			"entries":      entries,
			"summary":      summary,
		})
	}
}

type RecordCountRequest struct {
	CountedQty       *int   `json:"counted_qty"`
	AdjustmentReason string `json:"adjustment_reason"`
}

// PUT /api/cycle-counts/entries/:entryId
func RecordCountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		entryID, err := parseIDParam(c, "entryId")
		if err != nil {
			return err
		}

		var body RecordCountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CountedQty == nil {
			return fiber.NewError(fiber.StatusBadRequest, "counted_qty is required")
		}

		entry, err := svc.RecordCount(entryID, *body.CountedQty, body.AdjustmentReason, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Entry not found")
			}
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{"entry": entryResponse(*entry)})
	}
}

// POST /api/cycle-counts/entries/:entryId/skip
func SkipEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entryID, err := parseIDParam(c, "entryId")
		if err != nil {
			return err
		}

		entry, err := svc.Skip(entryID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Entry not found")
			}
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{"entry": entryResponse(*entry)})
	}
}

type TransitionRequest struct {
	Status models.CycleCountStatus `json:"status"`
}

// POST /api/cycle-counts/:id/status
func TransitionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var body TransitionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}

		cc, reconcileResult, err := svc.Transition(id, body.Status, userID)
		if err != nil {
			return toHTTPError(err)
		}

		resp := fiber.Map{
			"id":           cc.ID,
			"name":         cc.Name,
			"status":       cc.Status,
			"completed_at": cc.CompletedAt,
		}
		if reconcileResult != nil {
			resp["reconciliation"] = reconcileResult
		}
		return c.JSON(resp)
	}
}

// DELETE /api/cycle-counts/:id
func DeleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Delete(id); err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
