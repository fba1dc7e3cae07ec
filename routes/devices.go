package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupPCRoutes настраивает маршруты для ПК
func SetupPCRoutes(app *fiber.App, pcController *controllers.PCController) {
	pcs := app.Group("/api/pcs", utils.AuthMiddleware)

	// GET /api/pcs - список ПК (фильтры area, subarea, local, os, cpu, ram, disk, q)
	pcs.Get("/", pcController.GetPCs)

	// GET /api/pcs/:id - ПК со связанной периферией
	pcs.Get("/:id", pcController.GetPC)

	// POST /api/pcs - создать ПК
	pcs.Post("/", pcController.CreatePC)

	// PUT /api/pcs/:id - изменить ПК
	pcs.Put("/:id", pcController.UpdatePC)

	// DELETE /api/pcs/:id?delete=Monitor,Mouse - удалить ПК и выбранные виды периферии
	pcs.Delete("/:id", pcController.DeletePC)
}

// SetupPeripheralRoutes настраивает маршруты для периферии всех видов
func SetupPeripheralRoutes(app *fiber.App, peripheralController *controllers.PeripheralController) {
	peripherals := app.Group("/api/peripherals/:kind", utils.AuthMiddleware)

	// GET /api/peripherals/:kind - список устройств вида (фильтры area, subarea, local, pc, q)
	peripherals.Get("/", peripheralController.GetPeripherals)

	// GET /api/peripherals/:kind/:id - получить устройство
	peripherals.Get("/:id", peripheralController.GetPeripheral)

	// POST /api/peripherals/:kind - создать устройство
	peripherals.Post("/", peripheralController.CreatePeripheral)

	// PUT /api/peripherals/:kind/:id - изменить устройство
	peripherals.Put("/:id", peripheralController.UpdatePeripheral)

	// DELETE /api/peripherals/:kind/:id - удалить устройство
	peripherals.Delete("/:id", peripheralController.DeletePeripheral)
}
