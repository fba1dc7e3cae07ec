package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes настраивает маршруты для дашборда
func SetupDashboardRoutes(app *fiber.App, dashboardController *controllers.DashboardController) {
	api := app.Group("/api/dashboard", utils.AuthMiddleware)

	// Итоги по инвентарю и сводка по областям
	api.Get("/", dashboardController.GetDashboardData)
}
