package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/hienmauto/internal/config"
	"github.com/example/hienmauto/internal/handlers"
	"github.com/example/hienmauto/internal/middleware"
	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config,
	sync *services.OrderSyncService, stats *services.StatsService, codec *services.SheetCodec) {

	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(sync)
	dashboardHandler := handlers.NewDashboardHandler(sync, stats)
	adminHandler := handlers.NewAdminHandler(db, cfg, codec)
	summaryHandler := handlers.NewSummaryHandler(db)
	tascoHandler := handlers.NewTascoHandler(db)

	api := app.Group("/api")
	authed := middleware.AuthMiddleware(cfg, db)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authed, authHandler.Me)
	auth.Post("/change-password", authed, authHandler.ChangePassword)

	// Order sync routes
	orders := api.Group("/orders", authed)
	orders.Get("/", middleware.RequirePermission(models.PermViewOrders), orderHandler.ListOrders)
	orders.Post("/refresh", middleware.RequirePermission(models.PermViewOrders), orderHandler.RefreshOrders)
	orders.Post("/", middleware.RequirePermission(models.PermAddOrders), orderHandler.CreateOrders)
	orders.Patch("/", middleware.RequirePermission(models.PermEditOrders), orderHandler.BulkUpdateOrders)
	orders.Delete("/", middleware.RequirePermission(models.PermEditOrders), orderHandler.BulkDeleteOrders)

	// Dashboard
	api.Get("/dashboard/stats", authed,
		middleware.RequirePermission(models.PermViewDashboard), dashboardHandler.Stats)

	// Monthly summary
	summary := api.Group("/summary", authed)
	summary.Get("/", middleware.RequirePermission(models.PermViewSummary), summaryHandler.GetMonth)
	summary.Put("/", middleware.RequirePermission(models.PermEditSummary), summaryHandler.UpsertRecord)
	summary.Delete("/:id", middleware.RequirePermission(models.PermEditSummary), summaryHandler.DeleteRecord)

	// Tasco product catalog
	tasco := api.Group("/tasco", authed)
	tasco.Get("/items", middleware.RequirePermission(models.PermViewTasco), tascoHandler.ListItems)
	tasco.Post("/items", middleware.RequirePermission(models.PermAddTasco), tascoHandler.CreateItem)
	tasco.Put("/items/:id", middleware.RequirePermission(models.PermEditTasco), tascoHandler.UpdateItem)
	tasco.Delete("/items/:id", middleware.RequirePermission(models.PermDeleteTasco), tascoHandler.DeleteItem)
	tasco.Post("/product-code", middleware.RequirePermission(models.PermViewTasco), tascoHandler.PreviewProductCode)

	// Administration: accounts, roles, settings
	admin := api.Group("/admin", authed, middleware.RequirePermission(models.PermViewSettingsAdmin))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/roles", adminHandler.ListRoles)
	admin.Post("/roles", adminHandler.AddRole)
	admin.Delete("/roles/:name", adminHandler.DeleteRole)

	settings := api.Group("/settings", authed, middleware.RequirePermission(models.PermViewSettingsAdmin))
	settings.Get("/:key", adminHandler.GetSetting)
	settings.Put("/:key", adminHandler.PutSetting)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
