package cyclecount

import (
	"encoding/csv"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func exportApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Get("/cycle-counts/:id/export", ExportHandler(svc))
	return app
}

func TestExportSessionCSV(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db)
	item := seedItem(t, db, "100", "Widget", "A", 10, user.ID)
	item.Aisle, item.Bin = "3", "B7"
	if err := db.Save(&item).Error; err != nil {
		t.Fatalf("save item: %v", err)
	}
	seedItem(t, db, "101", "Gadget", "A", 5, user.ID)

	svc := NewService(db, false)
	cc, err := svc.Create("August audit", Filter{Type: FilterAll}, "", user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, e := range cc.Entries {
		if *e.InventoryItemID == item.ID {
			if _, err := svc.RecordCount(e.ID, 7, "shelf damage", user.ID); err != nil {
				t.Fatalf("record count: %v", err)
			}
		}
	}

	app := exportApp(svc)
	req := httptest.NewRequest("GET", "/cycle-counts/"+strconv.Itoa(int(cc.ID))+"/export", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q, want text/csv", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "cycle-count-August-audit") {
		t.Fatalf("content disposition = %q", cd)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2 entries", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "Item ID,Item Name,Zone,Aisle,Row,Bin,Unit,Expected Qty,Counted Qty,Variance,Status,Counted By,Adjustment Reason,Counted At" {
		t.Fatalf("header = %q", header)
	}

	var counted []string
	for _, row := range records[1:] {
		if row[0] == "100" {
			counted = row
		}
	}
	if counted == nil {
		t.Fatal("counted item row missing")
	}
	if counted[1] != "Widget" || counted[2] != "A" || counted[3] != "3" || counted[5] != "B7" {
		t.Fatalf("identity/location = %v", counted[:7])
	}
	if counted[7] != "10" || counted[8] != "7" || counted[9] != "-3" {
		t.Fatalf("expected/counted/variance = %v, want 10/7/-3", counted[7:10])
	}
	if counted[10] != "COUNTED" || counted[11] != user.Name || counted[12] != "shelf damage" {
		t.Fatalf("status/counter/reason = %v", counted[10:13])
	}
	if counted[13] == "" {
		t.Fatal("counted-at timestamp missing")
	}
}

func TestExportRejectsMalformedID(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, false)
	app := exportApp(svc)

	for _, id := range []string{"12abc", "0", "-1"} {
		req := httptest.NewRequest("GET", "/cycle-counts/"+id+"/export", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %q: %v", id, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, resp.StatusCode)
		}
	}
}
