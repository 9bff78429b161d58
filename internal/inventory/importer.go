package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/scanlog"

	"github.com/xuri/excelize/v2"
)

// ImportResult: per-file counters, with row-level errors collected instead
// of aborting the whole upload.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

var headerCleanRe = regexp.MustCompile(`[^a-z0-9_]`)

// sniffDelimiter picks the most frequent candidate in the header line.
// Vendors export with commas, tabs or semicolons depending on locale.
func sniffDelimiter(firstLine string) rune {
	best, bestCount := ',', strings.Count(firstLine, ",")
	if n := strings.Count(firstLine, "\t"); n > bestCount {
		best, bestCount = '\t', n
	}
	if n := strings.Count(firstLine, ";"); n > bestCount {
		best = ';'
	}
	return best
}

// parseCSV reads the whole file into normalized headers plus data rows.
func parseCSV(r io.Reader) (headers []string, rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil, nil
	}

	firstLine := text
	if idx := strings.IndexAny(text, "\r\n"); idx != -1 {
		firstLine = text[:idx]
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-cell
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers = normalizeHeaders(records[0])
	return headers, records[1:], nil
}

// parseXLSX reads the first sheet of a workbook into the same shape.
func parseXLSX(r io.Reader) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("could not read sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers = normalizeHeaders(records[0])
	return headers, records[1:], nil
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = headerCleanRe.ReplaceAllString(strings.ReplaceAll(h, " ", "_"), "")
	}
	return headers
}

// findColumn returns the first header containing any of the patterns, in
// pattern priority order, or -1.
func findColumn(headers []string, patterns ...string) int {
	for _, pattern := range patterns {
		for i, h := range headers {
			if strings.Contains(h, pattern) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

type columnMap struct {
	barcode, name, description, quantity      int
	bin, row, aisle, zone                     int
	unit, category, condition, cost, minStock int
}

func mapColumns(headers []string) (columnMap, error) {
	m := columnMap{
		barcode:     findColumn(headers, "barcode", "upc", "ean", "sku", "code", "item_number", "item_id"),
		name:        findColumn(headers, "name", "title", "product_name", "item_name", "item"),
		description: findColumn(headers, "description", "desc", "details"),
		quantity:    findColumn(headers, "quantity", "qty", "stock", "count", "on_hand"),
		bin:         findColumn(headers, "bin", "shelf"),
		row:         findColumn(headers, "row"),
		aisle:       findColumn(headers, "aisle"),
		zone:        findColumn(headers, "zone", "warehouse", "location", "loc"),
		unit:        findColumn(headers, "unit", "uom", "unit_of_measure"),
		category:    findColumn(headers, "category", "cat", "type", "group", "department"),
		condition:   findColumn(headers, "condition", "status"),
		cost:        findColumn(headers, "cost_price", "cost", "price", "unit_cost"),
		minStock:    findColumn(headers, "min_stock", "reorder", "minimum"),
	}

	if m.barcode == -1 {
		return m, fmt.Errorf("no barcode/UPC/SKU column found. Available columns: %s", strings.Join(headers, ", "))
	}
	if m.name == -1 {
		return m, fmt.Errorf("no name/title column found. Available columns: %s", strings.Join(headers, ", "))
	}
	return m, nil
}

// importRows upserts parsed rows into the inventory. mode "update"
// overwrites existing barcodes, mode "skip" leaves them untouched.
func importRows(headers []string, rows [][]string, mode string, actorID uint) (*ImportResult, error) {
	cols, err := mapColumns(headers)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}

	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header line
		barcode := cell(row, cols.barcode)
		name := cell(row, cols.name)

		if barcode == "" {
			result.Skipped++
			continue
		}
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing name", rowNum))
			result.Skipped++
			continue
		}

		condition := strings.ToUpper(cell(row, cols.condition))
		if !models.ValidCondition(condition) {
			condition = string(models.ConditionGood)
		}

		quantity := 1
		if q, err := strconv.Atoi(cell(row, cols.quantity)); err == nil && q >= 0 {
			quantity = q
		}

		minStock := 0
		if ms, err := strconv.Atoi(cell(row, cols.minStock)); err == nil && ms >= 0 {
			minStock = ms
		}

		var costPrice *float64
		if cp, err := strconv.ParseFloat(cell(row, cols.cost), 64); err == nil {
			costPrice = &cp
		}

		item := models.InventoryItem{
			Barcode:     barcode,
			Name:        name,
			Description: cell(row, cols.description),
			Quantity:    quantity,
			Bin:         cell(row, cols.bin),
			Row:         cell(row, cols.row),
			Aisle:       cell(row, cols.aisle),
			Zone:        cell(row, cols.zone),
			Unit:        cell(row, cols.unit),
			Category:    cell(row, cols.category),
			Condition:   models.ItemCondition(condition),
			MinStock:    minStock,
			CostPrice:   costPrice,
			CreatedByID: actorID,
		}

		var existing models.InventoryItem
		lookupErr := database.DB.Where("barcode = ?", barcode).First(&existing).Error

		switch {
		case lookupErr == nil && mode == "update":
			item.ID = existing.ID
			item.CreatedByID = existing.CreatedByID
			if err := database.DB.Save(&item).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d (%s): %v", rowNum, barcode, err))
				continue
			}
			_ = scanlog.Write(scanlog.LogOptions{
				Barcode:         barcode,
				Action:          models.ScanActionUpdated,
				Notes:           "CSV import update",
				ScannedByID:     actorID,
				InventoryItemID: &existing.ID,
			})
			result.Updated++

		case lookupErr == nil:
			result.Skipped++

		default:
			if err := database.DB.Create(&item).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d (%s): %v", rowNum, barcode, err))
				continue
			}
			_ = scanlog.Write(scanlog.LogOptions{
				Barcode:         barcode,
				Action:          models.ScanActionCreated,
				QuantityChange:  quantity,
				Notes:           "CSV import",
				ScannedByID:     actorID,
				InventoryItemID: &item.ID,
			})
			result.Imported++
		}
	}

	return result, nil
}
