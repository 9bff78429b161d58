package cyclecount

import (
	"errors"
	"testing"
)

func TestParseFilter(t *testing.T) {
	cases := []struct {
		filterType, filterValue string
		want                    FilterType
		wantErr                 bool
	}{
		{"", "", FilterAll, false},
		{"all", "", FilterAll, false},
		{"all", "ignored", FilterAll, false},
		{"zone", "A", FilterZone, false},
		{"aisle", "3", FilterAisle, false},
		{"row", "2", FilterRow, false},
		{"bin", "B7", FilterBin, false},
		{"category", "Hardware", FilterCategory, false},
		{"zone", "", "", true},
		{"warehouse", "A", "", true},
	}

	for _, tc := range cases {
		filter, err := ParseFilter(tc.filterType, tc.filterValue)
		if tc.wantErr {
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("ParseFilter(%q, %q): got %v, want ValidationError", tc.filterType, tc.filterValue, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFilter(%q, %q): %v", tc.filterType, tc.filterValue, err)
			continue
		}
		if filter.Type != tc.want {
			t.Errorf("ParseFilter(%q, %q) type = %s, want %s", tc.filterType, tc.filterValue, filter.Type, tc.want)
		}
	}
}

func TestFilterSelectsByEachDimension(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db)

	item := seedItem(t, db, "100", "Widget", "A", 3, user.ID)
	item.Aisle, item.Row, item.Bin, item.Category = "1", "2", "B7", "Hardware"
	if err := db.Save(&item).Error; err != nil {
		t.Fatalf("save item: %v", err)
	}
	seedItem(t, db, "101", "Other", "Z", 3, user.ID)

	svc := NewService(db, false)

	for _, filter := range []Filter{
		{Type: FilterZone, Value: "A"},
		{Type: FilterAisle, Value: "1"},
		{Type: FilterRow, Value: "2"},
		{Type: FilterBin, Value: "B7"},
		{Type: FilterCategory, Value: "Hardware"},
	} {
		cc, err := svc.Create("By "+string(filter.Type), filter, "", user.ID)
		if err != nil {
			t.Fatalf("create with %s filter: %v", filter.Type, err)
		}
		if len(cc.Entries) != 1 {
			t.Fatalf("%s filter matched %d entries, want 1", filter.Type, len(cc.Entries))
		}
		if *cc.Entries[0].InventoryItemID != item.ID {
			t.Fatalf("%s filter matched wrong item", filter.Type)
		}
	}
}
