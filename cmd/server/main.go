package main

import (
	"log"
	"strings"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/cyclecount"
	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/inventory"
	"stocktrack-backend/internal/labels"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/sage"
	"stocktrack-backend/internal/scanlog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	cfg := config.Load()
	database.Init(cfg)

	countSvc := cyclecount.NewService(database.DB, cfg.AllowRecount)
	sageClient := sage.NewClient(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
		BodyLimit: 20 * 1024 * 1024, // spreadsheet uploads
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Scanner
	protected.Post("/scans", inventory.ScanHandler())
	protected.Get("/scan-logs", scanlog.ListHandler())
	protected.Get("/lookup/:barcode", inventory.LookupHandler())

	// Items
	protected.Get("/items", inventory.ListItemsHandler())
	protected.Put("/items/:id", inventory.UpdateItemHandler())
	protected.Delete("/items/:id", auth.RequireRole(models.RoleAdmin), inventory.DeleteItemHandler())

	// Dashboard
	protected.Get("/dashboard/stats", inventory.DashboardStatsHandler())

	// Import / export
	protected.Post("/import", inventory.ImportHandler())
	protected.Get("/import/template", inventory.ImportTemplateHandler())
	protected.Get("/export/csv", inventory.ExportCSVHandler())
	protected.Get("/export/xlsx", inventory.ExportXLSXHandler())

	// Labels
	protected.Post("/labels", labels.PrintHandler())

	// Cycle counts
	protected.Post("/cycle-counts", cyclecount.CreateHandler(countSvc))
	protected.Get("/cycle-counts", cyclecount.ListHandler(countSvc))
	protected.Get("/cycle-counts/:id", cyclecount.GetHandler(countSvc))
	protected.Delete("/cycle-counts/:id", cyclecount.DeleteHandler(countSvc))
	protected.Post("/cycle-counts/:id/status", cyclecount.TransitionHandler(countSvc))
	protected.Get("/cycle-counts/:id/export", cyclecount.ExportHandler(countSvc))
	protected.Put("/cycle-counts/entries/:entryId", cyclecount.RecordCountHandler(countSvc))
	protected.Post("/cycle-counts/entries/:entryId/skip", cyclecount.SkipEntryHandler(countSvc))

	// Sage Intacct
	protected.Get("/sage/status", sage.StatusHandler(sageClient))
	protected.Get("/sage/items", sage.ListItemsHandler(sageClient))
	protected.Post("/sage/sync", auth.RequireRole(models.RoleAdmin), sage.SyncHandler(sageClient))

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
