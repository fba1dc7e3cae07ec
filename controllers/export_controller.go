package controllers

import (
	"fmt"

	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ExportController выгружает списки в xlsx
type ExportController struct {
	exports   *services.ExportService
	hierarchy *services.HierarchyService
}

// NewExportController создает новый контроллер экспорта
func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{
		exports:   services.NewExportService(db),
		hierarchy: services.NewHierarchyService(db),
	}
}

// GetEntities возвращает список сущностей для экспорта
func (c *ExportController) GetEntities(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success":  true,
		"entities": services.ExportEntities(),
	})
}

// Export отдает xlsx файл сущности; фильтры area, subarea, local применяются к спискам с узлами
func (c *ExportController) Export(ctx *fiber.Ctx) error {
	scope, err := resolveScope(ctx, c.hierarchy)
	if err != nil {
		return respondError(ctx, err, "Failed to resolve filters")
	}

	content, filename, err := c.exports.Export(ctx.Params("entity"), scope)
	if err != nil {
		return respondError(ctx, err, "Failed to export")
	}

	ctx.Set(fiber.HeaderContentType, services.XLSXContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(content)
}
