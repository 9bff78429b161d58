package labels

import (
	"strings"
	"testing"
	"time"

	"stocktrack-backend/internal/models"
)

func sampleItem() models.InventoryItem {
	return models.InventoryItem{
		Barcode:  "0123456789012",
		Name:     `Widget <XL> & "Pro"`,
		Quantity: 6,
		Zone:     "A",
		Aisle:    "3",
		Bin:      "B7",
	}
}

func TestRenderLabelSheetEscapesAndRepeats(t *testing.T) {
	opts := renderOptions{
		size:         labelSizes["30252"],
		copies:       3,
		showName:     true,
		showLocation: true,
		fontSize:     10,
	}
	page := renderLabelSheet([]models.InventoryItem{sampleItem()}, opts)

	if !strings.Contains(page, "Widget &lt;XL&gt; &amp; &#34;Pro&#34;") {
		t.Error("item name not HTML-escaped")
	}
	if got := strings.Count(page, `class="label"`); got != 3 {
		t.Errorf("labels rendered = %d, want 3 copies", got)
	}
	if !strings.Contains(page, "JsBarcode") {
		t.Error("barcode script missing")
	}
	if !strings.Contains(page, "Zone A / Aisle 3 / Bin B7") {
		t.Error("location line missing")
	}
	if !strings.Contains(page, "window.print()") {
		t.Error("auto-print trigger missing")
	}
}

func TestRenderLabelSheetToggles(t *testing.T) {
	opts := renderOptions{
		size:     labelSizes["30332"],
		copies:   1,
		fontSize: 10,
	}
	page := renderLabelSheet([]models.InventoryItem{sampleItem()}, opts)

	if strings.Contains(page, `class="name"`) {
		t.Error("name rendered with show_name off")
	}
	if strings.Contains(page, `class="location"`) {
		t.Error("location rendered with show_location off")
	}
	if strings.Contains(page, `class="qty"`) {
		t.Error("quantity rendered with show_qty off")
	}
	if !strings.Contains(page, "data-barcode=\"0123456789012\"") {
		t.Error("barcode value missing")
	}
}

func TestRenderLabelSheetExtras(t *testing.T) {
	opts := renderOptions{
		size:       labelSizes["30256"],
		copies:     1,
		showQty:    true,
		showDate:   true,
		customText: "Fragile <handle> with care",
		fontSize:   12,
	}
	page := renderLabelSheet([]models.InventoryItem{sampleItem()}, opts)

	if !strings.Contains(page, "Qty: 6") {
		t.Error("quantity line missing")
	}
	if !strings.Contains(page, time.Now().Format("2006-01-02")) {
		t.Error("date line missing")
	}
	if !strings.Contains(page, "Fragile &lt;handle&gt; with care") {
		t.Error("custom text missing or not escaped")
	}
}

func TestLocationLineSkipsEmptyParts(t *testing.T) {
	item := models.InventoryItem{Zone: "A", Bin: "B7"}
	if got := locationLine(item); got != "Zone A / Bin B7" {
		t.Fatalf("locationLine = %q", got)
	}
	if got := locationLine(models.InventoryItem{}); got != "" {
		t.Fatalf("locationLine(empty) = %q, want empty", got)
	}
}
