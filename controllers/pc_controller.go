package controllers

import (
	"strings"

	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PCController обрабатывает HTTP запросы для ПК
type PCController struct {
	devices   *services.DeviceService
	hierarchy *services.HierarchyService
}

// NewPCController создает новый контроллер ПК
func NewPCController(db *gorm.DB, notifier services.Notifier) *PCController {
	return &PCController{
		devices:   services.NewDeviceService(db, notifier),
		hierarchy: services.NewHierarchyService(db),
	}
}

// PCRequest структура запроса создания и изменения ПК
type PCRequest struct {
	InventoryCodeID        *uint `json:"inventory_code_id"`
	ResponsibleID          *uint `json:"responsible_id"`
	OrgNodeID              uint  `json:"org_node_id"`
	Works                  bool  `json:"works"`
	IsInternationalProject bool  `json:"is_international_project"`
	OperatingSystemID      *uint `json:"operating_system_id"`
	ProcessorID            *uint `json:"processor_id"`
	RAMID                  *uint `json:"ram_id"`
	DiskID                 *uint `json:"disk_id"`
}

func (r *PCRequest) apply(pc *models.PC) {
	pc.InventoryCodeID = r.InventoryCodeID
	pc.ResponsibleID = r.ResponsibleID
	pc.OrgNodeID = r.OrgNodeID
	pc.Works = r.Works
	pc.IsInternationalProject = r.IsInternationalProject
	pc.OperatingSystemID = r.OperatingSystemID
	pc.ProcessorID = r.ProcessorID
	pc.RAMID = r.RAMID
	pc.DiskID = r.DiskID
}

// componentParams query параметры фильтров по компонентам
var componentParams = map[models.ComponentCategory]string{
	models.ComponentOS:   "os",
	models.ComponentCPU:  "cpu",
	models.ComponentRAM:  "ram",
	models.ComponentDisk: "disk",
}

// GetPCs возвращает ПК с фильтрами иерархии, компонентов и поиском
func (c *PCController) GetPCs(ctx *fiber.Ctx) error {
	scope, err := resolveScope(ctx, c.hierarchy)
	if err != nil {
		return respondError(ctx, err, "Failed to resolve filters")
	}

	filter := services.PCFilter{
		Scope:      scope,
		Components: map[models.ComponentCategory]uint{},
		Search:     ctx.Query("q"),
	}
	filter.Limit, filter.Offset = pagination(ctx)

	for category, param := range componentParams {
		id, err := optionalID(ctx, param)
		if err != nil {
			return respondError(ctx, err, "")
		}
		if id != nil {
			filter.Components[category] = *id
		}
	}

	pcs, err := c.devices.ListPCs(filter)
	if err != nil {
		return respondError(ctx, err, "Failed to get PCs")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"pcs":     pcs,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetPC возвращает ПК вместе со связанной периферией
func (c *PCController) GetPC(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	pc, err := c.devices.GetPC(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get PC")
	}

	peripherals, err := c.devices.PeripheralsOfPC(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get peripherals")
	}

	return ctx.JSON(fiber.Map{
		"success":     true,
		"pc":          pc,
		"label":       pc.Label(),
		"peripherals": peripherals,
	})
}

// CreatePC создает ПК
func (c *PCController) CreatePC(ctx *fiber.Ctx) error {
	var req PCRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var pc models.PC
	req.apply(&pc)
	if err := c.devices.SubmitPC(&pc); err != nil {
		return respondError(ctx, err, "Failed to create PC")
	}

	saved, err := c.devices.GetPC(pc.ID)
	if err != nil {
		return respondError(ctx, err, "Failed to get PC")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "PC created successfully",
		"pc":      saved,
	})
}

// UpdatePC изменяет ПК
func (c *PCController) UpdatePC(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	pc, err := c.devices.GetPC(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get PC")
	}

	var req PCRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.apply(pc)
	if err := c.devices.SubmitPC(pc); err != nil {
		return respondError(ctx, err, "Failed to update PC")
	}

	saved, err := c.devices.GetPC(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get PC")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "PC updated successfully",
		"pc":      saved,
	})
}

// DeletePC удаляет ПК. Параметр delete перечисляет виды периферии, удаляемые вместе с ним.
func (c *PCController) DeletePC(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	var kinds []models.DeviceType
	if raw := ctx.Query("delete"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind, err := models.ParseDeviceType(part)
			if err != nil || !kind.IsPeripheral() {
				return ctx.Status(400).JSON(fiber.Map{
					"error": "Invalid peripheral kind: " + strings.TrimSpace(part),
				})
			}
			kinds = append(kinds, kind)
		}
	}

	if err := c.devices.DeletePC(id, kinds); err != nil {
		return respondError(ctx, err, "Failed to delete PC")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "PC deleted successfully",
	})
}
