package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/example/hienmauto/internal/config"
	"github.com/example/hienmauto/internal/database"
	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/routes"
	"github.com/example/hienmauto/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword)

	codec := services.NewSheetCodec(loadPlatforms(db))
	sheet := services.NewSheetService(cfg.SheetCSVURL, cfg.SheetScriptURL, codec, cfg.HTTPTimeout, cfg.DeleteCallGap)
	n8n := services.NewN8NService(services.N8NEndpoints{
		Add:        cfg.N8NAddWebhookURL,
		UpdateOne:  cfg.N8NUpdateOneWebhookURL,
		UpdateBulk: cfg.N8NUpdateBulkWebhookURL,
		Delete:     cfg.N8NDeleteWebhookURL,
		Stats:      cfg.N8NStatsWebhookURL,
	}, codec, cfg.HTTPTimeout)
	sync := services.NewOrderSyncService(sheet, n8n, cfg.UpdateSettleDelay, cfg.DeleteSettleDelay)
	stats := services.NewStatsService(n8n)

	app := fiber.New(fiber.Config{
		AppName: "Hien M Auto Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, sync, stats, codec)

	// Warm the order cache so the first dashboard view doesn't wait on the sheet.
	go func() {
		orders := sync.Refresh(context.Background())
		log.Printf("[Sheet] initial load: %d orders", len(orders))
	}()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// loadPlatforms reads the configured platform list, falling back to defaults.
func loadPlatforms(db *gorm.DB) []string {
	var setting models.AppSetting
	if err := db.Where("key = ?", models.SettingPlatforms).First(&setting).Error; err != nil {
		return models.DefaultPlatforms
	}

	var platforms []string
	if err := json.Unmarshal([]byte(setting.Value), &platforms); err != nil || len(platforms) == 0 {
		return models.DefaultPlatforms
	}
	return platforms
}
