package routes

import (
	"inventario-backend/controllers"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupOrgNodeRoutes настраивает маршруты для организационной структуры
func SetupOrgNodeRoutes(app *fiber.App, orgNodeController *controllers.OrgNodeController) {
	nodes := app.Group("/api/org-nodes", utils.AuthMiddleware)

	// GET /api/org-nodes - список узлов (фильтры area, subarea, local)
	nodes.Get("/", orgNodeController.GetOrgNodes)

	// GET /api/org-nodes/levels/:level - варианты фильтра top, second или third (перед параметрическим маршрутом)
	nodes.Get("/levels/:level", orgNodeController.GetLevel)

	// GET /api/org-nodes/:id - получить узел
	nodes.Get("/:id", orgNodeController.GetOrgNode)

	// GET /api/org-nodes/:id/label - полное имя узла
	nodes.Get("/:id/label", orgNodeController.GetLabel)

	// GET /api/org-nodes/:id/stats - статистика по поддереву
	nodes.Get("/:id/stats", orgNodeController.GetStats)

	// POST /api/org-nodes - создать узел
	nodes.Post("/", orgNodeController.CreateOrgNode)

	// PUT /api/org-nodes/:id - изменить узел
	nodes.Put("/:id", orgNodeController.UpdateOrgNode)

	// DELETE /api/org-nodes/:id - удалить узел вместе с потомками
	nodes.Delete("/:id", orgNodeController.DeleteOrgNode)
}
