package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes настраивает маршруты для аутентификации
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	// Группа маршрутов для аутентификации
	auth := app.Group("/auth")

	// POST /auth/login - вход сотрудника
	auth.Post("/login", authController.Login)

	// GET /auth/me - текущий пользователь
	auth.Get("/me", utils.AuthMiddleware, authController.Me)

	// GET /auth/health - проверка работоспособности
	auth.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Auth service is running",
			"timestamp": fiber.Map{
				"unix": fiber.Map{
					"seconds": c.Context().Time().Unix(),
				},
			},
		})
	})
}
