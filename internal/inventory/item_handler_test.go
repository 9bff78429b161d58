package inventory

import (
	"net/http/httptest"
	"strings"
	"testing"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func itemApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, models.RoleAdmin)
		return c.Next()
	})
	app.Put("/items/:id", UpdateItemHandler())
	app.Delete("/items/:id", DeleteItemHandler())
	return app
}

func TestItemHandlersRejectMalformedID(t *testing.T) {
	_ = setupDB(t)
	app := itemApp(1)

	for _, id := range []string{"12abc", "0", "x"} {
		req := httptest.NewRequest("PUT", "/items/"+id, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("put %q: %v", id, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("put id %q: status = %d, want 400", id, resp.StatusCode)
		}

		req = httptest.NewRequest("DELETE", "/items/"+id, nil)
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("delete %q: %v", id, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("delete id %q: status = %d, want 400", id, resp.StatusCode)
		}
	}
}
