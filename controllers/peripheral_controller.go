package controllers

import (
	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PeripheralController обрабатывает HTTP запросы для всех видов периферии
type PeripheralController struct {
	devices   *services.DeviceService
	hierarchy *services.HierarchyService
}

// NewPeripheralController создает новый контроллер периферии
func NewPeripheralController(db *gorm.DB, notifier services.Notifier) *PeripheralController {
	return &PeripheralController{
		devices:   services.NewDeviceService(db, notifier),
		hierarchy: services.NewHierarchyService(db),
	}
}

// PeripheralRequest структура запроса создания и изменения периферии
type PeripheralRequest struct {
	InventoryCodeID        *uint  `json:"inventory_code_id"`
	AssociatedPCID         *uint  `json:"associated_pc_id"`
	ResponsibleID          *uint  `json:"responsible_id"`
	OrgNodeID              *uint  `json:"org_node_id"`
	Works                  bool   `json:"works"`
	IsInternationalProject bool   `json:"is_international_project"`
	Brand                  string `json:"brand"`
}

func (r *PeripheralRequest) apply(p *models.Peripheral) {
	p.InventoryCodeID = r.InventoryCodeID
	p.AssociatedPCID = r.AssociatedPCID
	p.ResponsibleID = r.ResponsibleID
	p.OrgNodeID = r.OrgNodeID
	p.Works = r.Works
	p.IsInternationalProject = r.IsInternationalProject
	p.Brand = r.Brand
}

// kindParam разбирает вид периферии из маршрута
func kindParam(ctx *fiber.Ctx) (models.DeviceType, error) {
	kind, err := models.ParseDeviceType(ctx.Params("kind"))
	if err != nil || !kind.IsPeripheral() {
		return "", services.ErrInvalidKind
	}
	return kind, nil
}

// GetPeripherals возвращает устройства вида kind
func (c *PeripheralController) GetPeripherals(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return respondError(ctx, err, "")
	}

	scope, err := resolveScope(ctx, c.hierarchy)
	if err != nil {
		return respondError(ctx, err, "Failed to resolve filters")
	}
	pcID, err := optionalID(ctx, "pc")
	if err != nil {
		return respondError(ctx, err, "")
	}

	filter := services.PeripheralFilter{Scope: scope, PCID: pcID, Search: ctx.Query("q")}
	filter.Limit, filter.Offset = pagination(ctx)

	items, err := c.devices.ListPeripherals(kind, filter)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripherals")
	}

	return ctx.JSON(fiber.Map{
		"success":     true,
		"kind":        kind,
		"peripherals": items,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})
}

// GetPeripheral возвращает устройство по ID
func (c *PeripheralController) GetPeripheral(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return respondError(ctx, err, "")
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	p, err := c.devices.GetPeripheral(kind, id)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripheral")
	}

	return ctx.JSON(fiber.Map{
		"success":    true,
		"peripheral": p,
		"label":      p.Label(),
	})
}

// CreatePeripheral создает устройство: проверка номера, затем сохранение
func (c *PeripheralController) CreatePeripheral(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return respondError(ctx, err, "")
	}

	var req PeripheralRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	p := models.Peripheral{Kind: kind}
	req.apply(&p)
	if err := c.devices.SubmitPeripheral(&p); err != nil {
		return respondError(ctx, err, "Failed to create peripheral")
	}

	saved, err := c.devices.GetPeripheral(kind, p.ID)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripheral")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success":    true,
		"message":    "Peripheral created successfully",
		"peripheral": saved,
	})
}

// UpdatePeripheral изменяет устройство
func (c *PeripheralController) UpdatePeripheral(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return respondError(ctx, err, "")
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	p, err := c.devices.GetPeripheral(kind, id)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripheral")
	}

	var req PeripheralRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.apply(p)
	if err := c.devices.SubmitPeripheral(p); err != nil {
		return respondError(ctx, err, "Failed to update peripheral")
	}

	saved, err := c.devices.GetPeripheral(kind, id)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripheral")
	}

	return ctx.JSON(fiber.Map{
		"success":    true,
		"message":    "Peripheral updated successfully",
		"peripheral": saved,
	})
}

// DeletePeripheral удаляет устройство
func (c *PeripheralController) DeletePeripheral(ctx *fiber.Ctx) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return respondError(ctx, err, "")
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if err := c.devices.DeletePeripheral(kind, id); err != nil {
		return respondError(ctx, err, "Failed to delete peripheral")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Peripheral deleted successfully",
	})
}
