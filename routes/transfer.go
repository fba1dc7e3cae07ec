package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupExportRoutes настраивает маршруты выгрузки в xlsx
func SetupExportRoutes(app *fiber.App, exportController *controllers.ExportController) {
	exports := app.Group("/api/export", utils.AuthMiddleware)

	// GET /api/export - список сущностей
	exports.Get("/", exportController.GetEntities)

	// GET /api/export/:entity - xlsx файл
	exports.Get("/:entity", exportController.Export)
}

// SetupImportRoutes настраивает маршруты импорта из таблиц
func SetupImportRoutes(app *fiber.App, importController *controllers.ImportController) {
	imports := app.Group("/api/imports", utils.AuthMiddleware)

	// POST /api/imports/:job - выполнить задание импорта (multipart, поле file)
	imports.Post("/:job", importController.RunImport)
}
