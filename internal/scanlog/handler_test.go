package scanlog

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"stocktrack-backend/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	app := fiber.New()
	app.Get("/scan-logs", ListHandler())
	return app
}

func TestListRejectsMalformedLimit(t *testing.T) {
	app := setupApp(t)

	for _, limit := range []string{"abc", "10x", "-1", "0"} {
		req := httptest.NewRequest("GET", "/scan-logs?limit="+limit, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("limit %q: %v", limit, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("limit %q: status = %d, want 400", limit, resp.StatusCode)
		}
	}
}

func TestListEmpty(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/scan-logs", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
