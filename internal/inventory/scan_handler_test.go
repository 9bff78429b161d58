package inventory

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func scanApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, models.RoleUser)
		return c.Next()
	})
	app.Post("/scans", ScanHandler())
	return app
}

func postScan(t *testing.T, app *fiber.App, body ScanRequest) int {
	t.Helper()

	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/scans", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestScanCreate(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db)
	app := scanApp(user.ID)

	status := postScan(t, app, ScanRequest{
		Barcode: "200",
		Action:  "CREATE",
		Item:    &ScanItemPayload{Name: "Widget", Quantity: 4, Zone: "A"},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}

	var item models.InventoryItem
	if err := db.Where("barcode = ?", "200").First(&item).Error; err != nil {
		t.Fatalf("item not created: %v", err)
	}
	if item.Quantity != 4 || item.Zone != "A" {
		t.Fatalf("item = %+v", item)
	}

	var log models.ScanLog
	if err := db.Where("barcode = ? AND action = ?", "200", models.ScanActionCreated).First(&log).Error; err != nil {
		t.Fatalf("CREATED log missing: %v", err)
	}

	// Same barcode again conflicts.
	status = postScan(t, app, ScanRequest{
		Barcode: "200",
		Action:  "CREATE",
		Item:    &ScanItemPayload{Name: "Duplicate"},
	})
	if status != fiber.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", status)
	}
}

func TestScanAdjustFloorsAtZero(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db)
	app := scanApp(user.ID)

	item := models.InventoryItem{Barcode: "201", Name: "Gadget", Quantity: 3, Condition: models.ConditionGood, CreatedByID: user.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	if status := postScan(t, app, ScanRequest{Barcode: "201", Action: "INCREMENT", QuantityChange: 2}); status != fiber.StatusOK {
		t.Fatalf("increment status = %d", status)
	}
	if status := postScan(t, app, ScanRequest{Barcode: "201", Action: "DECREMENT", QuantityChange: 100}); status != fiber.StatusOK {
		t.Fatalf("decrement status = %d", status)
	}

	if err := db.First(&item, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if item.Quantity != 0 {
		t.Fatalf("quantity = %d, want floored to 0", item.Quantity)
	}

	var lastLog models.ScanLog
	if err := db.Where("action = ?", models.ScanActionDecremented).Last(&lastLog).Error; err != nil {
		t.Fatalf("DECREMENTED log missing: %v", err)
	}
	if lastLog.QuantityChange != -5 {
		t.Fatalf("logged change = %d, want -5 (actual delta, not requested)", lastLog.QuantityChange)
	}
}

func TestScanAdjustUnknownBarcode(t *testing.T) {
	_ = setupDB(t)
	app := scanApp(1)

	if status := postScan(t, app, ScanRequest{Barcode: "nope", Action: "INCREMENT"}); status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestScanAuditLogsUnknownBarcode(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db)
	app := scanApp(user.ID)

	if status := postScan(t, app, ScanRequest{Barcode: "999", Action: "AUDIT", Notes: "seen on shelf"}); status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var log models.ScanLog
	if err := db.Where("barcode = ? AND action = ?", "999", models.ScanActionAudited).First(&log).Error; err != nil {
		t.Fatalf("AUDITED log missing: %v", err)
	}
	if log.InventoryItemID != nil {
		t.Fatal("unknown barcode audit must have no item reference")
	}
	if log.Notes != "seen on shelf" {
		t.Fatalf("notes = %q", log.Notes)
	}
}

func TestScanRejectsBadInput(t *testing.T) {
	db := setupDB(t)
	app := scanApp(1)

	if status := postScan(t, app, ScanRequest{Action: "CREATE"}); status != fiber.StatusBadRequest {
		t.Fatalf("missing barcode status = %d, want 400", status)
	}
	if status := postScan(t, app, ScanRequest{Barcode: "1", Action: "EXPLODE"}); status != fiber.StatusBadRequest {
		t.Fatalf("bad action status = %d, want 400", status)
	}
	if status := postScan(t, app, ScanRequest{Barcode: "1", Action: "CREATE"}); status != fiber.StatusBadRequest {
		t.Fatalf("CREATE without item status = %d, want 400", status)
	}

	var total int64
	db.Model(&models.ScanLog{}).Count(&total)
	if total != 0 {
		t.Fatalf("rejected scans wrote %d logs", total)
	}
}
