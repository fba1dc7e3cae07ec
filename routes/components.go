package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupComponentRoutes настраивает маршруты для справочника компонентов
func SetupComponentRoutes(app *fiber.App, componentController *controllers.ComponentController) {
	components := app.Group("/api/components", utils.AuthMiddleware)

	// GET /api/components - список компонентов (фильтр category)
	components.Get("/", componentController.GetComponents)

	// POST /api/components - добавить компонент
	components.Post("/", componentController.CreateComponent)

	// DELETE /api/components/:id - удалить компонент
	components.Delete("/:id", componentController.DeleteComponent)
}
