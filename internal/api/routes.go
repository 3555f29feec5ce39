package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lta/newsbridge/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, adminKey string) {
	api := app.Group("/api")

	api.Get("/health", handlers.HealthCheck)

	news := api.Group("/news")
	{
		news.Get("", handlers.ListNews)
		news.Get("/:id", handlers.GetNewsByID)
	}

	admin := middleware.AdminOnly(adminKey)
	{
		news.Post("", admin, handlers.CreateNews)
		news.Put("/:id", admin, handlers.UpdateNews)
		news.Patch("/:id", admin, handlers.UpdateNews)
		news.Delete("/:id", admin, handlers.DeleteNews)
	}

	api.Post("/wordpress/sync-from", admin, handlers.SyncFromWordPress)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
