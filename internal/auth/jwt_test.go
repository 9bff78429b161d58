package auth

import (
	"net/http/httptest"
	"testing"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": id})
	})
	app.Get("/admin-only", JWTMiddleware(cfg), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := testApp(cfg)

	user := &models.User{ID: 7, Email: "u@example.com", Role: models.RoleUser}
	token, err := GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := testApp(cfg)

	cases := []struct {
		name, header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request: %v", tc.name, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tc.name, resp.StatusCode)
		}
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := testApp(cfg)

	token, err := GenerateToken("another-secret-another-secret-xx", &models.User{ID: 1, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := testApp(cfg)

	userToken, _ := GenerateToken(cfg.JWTSecret, &models.User{ID: 1, Role: models.RoleUser})
	adminToken, _ := GenerateToken(cfg.JWTSecret, &models.User{ID: 2, Role: models.RoleAdmin})

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("user status = %d, want 403", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}
}
