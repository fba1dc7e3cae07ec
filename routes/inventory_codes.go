package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupInventoryCodeRoutes настраивает маршруты для инвентарных номеров
func SetupInventoryCodeRoutes(app *fiber.App, inventoryCodeController *controllers.InventoryCodeController) {
	codes := app.Group("/api/inventory-codes", utils.AuthMiddleware)

	// GET /api/inventory-codes - список номеров (фильтры type, term)
	codes.Get("/", inventoryCodeController.GetInventoryCodes)

	// GET /api/inventory-codes/available?type=&term= - свободные номера (перед параметрическим маршрутом)
	codes.Get("/available", inventoryCodeController.GetAvailable)

	// GET /api/inventory-codes/:id - номер и его подпись
	codes.Get("/:id", inventoryCodeController.GetInventoryCode)

	// GET /api/inventory-codes/:id/owner - устройство-владелец номера
	codes.Get("/:id/owner", inventoryCodeController.GetOwner)

	// POST /api/inventory-codes - создать номер
	codes.Post("/", inventoryCodeController.CreateInventoryCode)

	// PUT /api/inventory-codes/:id - переименовать номер
	codes.Put("/:id", inventoryCodeController.UpdateInventoryCode)

	// DELETE /api/inventory-codes/:id - удалить номер
	codes.Delete("/:id", inventoryCodeController.DeleteInventoryCode)
}
