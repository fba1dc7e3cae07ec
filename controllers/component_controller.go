package controllers

import (
	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ComponentController обрабатывает HTTP запросы для справочника компонентов
type ComponentController struct {
	components *services.ComponentService
}

// NewComponentController создает новый контроллер компонентов
func NewComponentController(db *gorm.DB) *ComponentController {
	return &ComponentController{components: services.NewComponentService(db)}
}

// ComponentRequest структура запроса создания компонента
type ComponentRequest struct {
	Category models.ComponentCategory `json:"category"`
	Name     string                   `json:"name"`
}

// GetComponents возвращает компоненты, при необходимости одной категории
func (c *ComponentController) GetComponents(ctx *fiber.Ctx) error {
	var category *models.ComponentCategory
	if raw := ctx.Query("category"); raw != "" {
		cat := models.ComponentCategory(raw)
		if !cat.Valid() {
			return ctx.Status(400).JSON(fiber.Map{
				"error": "Unknown component category",
			})
		}
		category = &cat
	}

	components, err := c.components.List(category)
	if err != nil {
		return respondError(ctx, err, "Failed to get components")
	}

	return ctx.JSON(fiber.Map{
		"success":    true,
		"components": components,
	})
}

// CreateComponent добавляет компонент
func (c *ComponentController) CreateComponent(ctx *fiber.Ctx) error {
	var req ComponentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !req.Category.Valid() {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Unknown component category",
		})
	}

	component, err := c.components.Create(req.Category, req.Name)
	if err != nil {
		return respondError(ctx, err, "Failed to create component")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success":   true,
		"message":   "Component created successfully",
		"component": component,
	})
}

// DeleteComponent удаляет компонент
func (c *ComponentController) DeleteComponent(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if err := c.components.Delete(id); err != nil {
		return respondError(ctx, err, "Failed to delete component")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Component deleted successfully",
	})
}
