package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LookupResult is what the scanner UI pre-fills the create form with.
type LookupResult struct {
	Found       bool   `json:"found"`
	Source      string `json:"source"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var lookupClient = &http.Client{Timeout: 5 * time.Second}

// GET /api/lookup/:barcode
// Tries Open Food Facts first (no API key, good grocery coverage), then
// UPCItemDB's trial endpoint. Either failing is not an error: the scanner
// falls back to manual entry.
func LookupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		barcode := strings.TrimSpace(c.Params("barcode"))
		if barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
		}

		if result, err := lookupOpenFoodFacts(barcode); err == nil && result.Found {
			return c.JSON(result)
		}
		if result, err := lookupUPCItemDB(barcode); err == nil && result.Found {
			return c.JSON(result)
		}

		// Nothing matched: pre-fill the form with the barcode itself.
		return c.JSON(LookupResult{Found: false, Name: barcode})
	}
}

func lookupOpenFoodFacts(barcode string) (*LookupResult, error) {
	resp, err := lookupClient.Get(fmt.Sprintf(
		"https://world.openfoodfacts.org/api/v2/product/%s.json", url.PathEscape(barcode)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts returned %d", resp.StatusCode)
	}

	var payload struct {
		Status  int `json:"status"`
		Product struct {
			ProductName string `json:"product_name"`
			Brands      string `json:"brands"`
			Categories  string `json:"categories"`
			Quantity    string `json:"quantity"`
		} `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != 1 || payload.Product.ProductName == "" {
		return &LookupResult{Found: false}, nil
	}

	name := payload.Product.ProductName
	if payload.Product.Brands != "" {
		name = payload.Product.Brands + " " + name
	}

	category := ""
	if parts := strings.Split(payload.Product.Categories, ","); len(parts) > 0 {
		category = strings.TrimSpace(parts[len(parts)-1])
	}

	return &LookupResult{
		Found:       true,
		Source:      "openfoodfacts",
		Name:        name,
		Description: payload.Product.Quantity,
		Category:    category,
	}, nil
}

func lookupUPCItemDB(barcode string) (*LookupResult, error) {
	resp, err := lookupClient.Get(
		"https://api.upcitemdb.com/prod/trial/lookup?upc=" + url.QueryEscape(barcode))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upcitemdb returned %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Brand       string `json:"brand"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 || payload.Items[0].Title == "" {
		return &LookupResult{Found: false}, nil
	}

	first := payload.Items[0]

	// UPCItemDB categories look like "Food > Snacks > Chips", keep the leaf
	category := first.Category
	if idx := strings.LastIndex(category, ">"); idx != -1 {
		category = strings.TrimSpace(category[idx+1:])
	}

	return &LookupResult{
		Found:       true,
		Source:      "upcitemdb",
		Name:        first.Title,
		Description: first.Description,
		Category:    category,
	}, nil
}
