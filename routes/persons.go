package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupPersonRoutes настраивает маршруты для ответственных
func SetupPersonRoutes(app *fiber.App, personController *controllers.PersonController) {
	persons := app.Group("/api/persons", utils.AuthMiddleware)

	// GET /api/persons - список ответственных (фильтры area, subarea, local, q)
	persons.Get("/", personController.GetPersons)

	// GET /api/persons/:id - получить ответственного
	persons.Get("/:id", personController.GetPerson)

	// GET /api/persons/:id/devices - количество устройств по видам
	persons.Get("/:id/devices", personController.GetDevices)

	// POST /api/persons - создать ответственного
	persons.Post("/", personController.CreatePerson)

	// PUT /api/persons/:id - изменить ответственного
	persons.Put("/:id", personController.UpdatePerson)

	// DELETE /api/persons/:id - удалить ответственного
	persons.Delete("/:id", personController.DeletePerson)
}
