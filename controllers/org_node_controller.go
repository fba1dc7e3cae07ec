package controllers

import (
	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrgNodeController обрабатывает HTTP запросы для организационной структуры
type OrgNodeController struct {
	hierarchy *services.HierarchyService
	stats     *services.StatsService
}

// NewOrgNodeController создает новый контроллер иерархии
func NewOrgNodeController(db *gorm.DB) *OrgNodeController {
	return &OrgNodeController{
		hierarchy: services.NewHierarchyService(db),
		stats:     services.NewStatsService(db),
	}
}

// OrgNodeRequest структура запроса создания и изменения узла
type OrgNodeRequest struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

// GetOrgNodes возвращает узлы с фильтрами area, subarea, local
func (c *OrgNodeController) GetOrgNodes(ctx *fiber.Ctx) error {
	scope, err := resolveScope(ctx, c.hierarchy)
	if err != nil {
		return respondError(ctx, err, "Failed to resolve filters")
	}

	nodes, err := c.hierarchy.List(scope)
	if err != nil {
		return respondError(ctx, err, "Failed to get org nodes")
	}

	return ctx.JSON(fiber.Map{
		"success":   true,
		"org_nodes": nodes,
	})
}

// GetLevel возвращает варианты для фильтра уровня top, second или third
func (c *OrgNodeController) GetLevel(ctx *fiber.Ctx) error {
	level := models.OrgLevel(ctx.Params("level"))
	switch level {
	case models.OrgLevelTop, models.OrgLevelSecond, models.OrgLevelThird:
	default:
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Unknown level, expected top, second or third",
		})
	}

	nodes, err := c.hierarchy.NodesAtLevel(level)
	if err != nil {
		return respondError(ctx, err, "Failed to get org nodes")
	}

	return ctx.JSON(fiber.Map{
		"success":   true,
		"level":     level,
		"org_nodes": nodes,
	})
}

// GetOrgNode возвращает узел по ID
func (c *OrgNodeController) GetOrgNode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	node, err := c.hierarchy.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get org node")
	}

	label, err := c.hierarchy.FullLabel(node)
	if err != nil {
		return respondError(ctx, err, "Failed to build label")
	}

	return ctx.JSON(fiber.Map{
		"success":  true,
		"org_node": node,
		"label":    label,
	})
}

// GetLabel возвращает полное имя узла "Area - Department - Local"
func (c *OrgNodeController) GetLabel(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	node, err := c.hierarchy.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get org node")
	}

	label, err := c.hierarchy.FullLabel(node)
	if err != nil {
		return respondError(ctx, err, "Failed to build label")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"label":   label,
	})
}

// GetStats возвращает статистику по поддереву узла
func (c *OrgNodeController) GetStats(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	node, err := c.hierarchy.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get org node")
	}

	summary, err := c.stats.Summary(node)
	if err != nil {
		return respondError(ctx, err, "Failed to compute stats")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"stats":   summary,
	})
}

// CreateOrgNode создает узел
func (c *OrgNodeController) CreateOrgNode(ctx *fiber.Ctx) error {
	var req OrgNodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	node, err := c.hierarchy.Create(req.Name, req.ParentID)
	if err != nil {
		return respondError(ctx, err, "Failed to create org node")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success":  true,
		"message":  "Org node created successfully",
		"org_node": node,
	})
}

// UpdateOrgNode переименовывает или переносит узел
func (c *OrgNodeController) UpdateOrgNode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	var req OrgNodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	node, err := c.hierarchy.Update(id, req.Name, req.ParentID)
	if err != nil {
		return respondError(ctx, err, "Failed to update org node")
	}

	return ctx.JSON(fiber.Map{
		"success":  true,
		"message":  "Org node updated successfully",
		"org_node": node,
	})
}

// DeleteOrgNode удаляет узел вместе с потомками
func (c *OrgNodeController) DeleteOrgNode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if err := c.hierarchy.Delete(id); err != nil {
		return respondError(ctx, err, "Failed to delete org node")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Org node deleted successfully",
	})
}
