package controllers

import (
	"strconv"

	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InventoryCodeController обрабатывает HTTP запросы для инвентарных номеров
type InventoryCodeController struct {
	codes *services.InventoryCodeService
}

// NewInventoryCodeController создает новый контроллер инвентарных номеров
func NewInventoryCodeController(db *gorm.DB) *InventoryCodeController {
	return &InventoryCodeController{codes: services.NewInventoryCodeService(db)}
}

// InventoryCodeRequest структура запроса создания и переименования номера
type InventoryCodeRequest struct {
	Code       string `json:"code"`
	DeviceType string `json:"device_type"`
}

// AvailableResult элемент ответа поиска свободных номеров
type AvailableResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// optionalType разбирает необязательный тип устройства
func optionalType(raw string) (*models.DeviceType, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseDeviceType(raw)
	if err != nil {
		return nil, services.ErrInvalidKind
	}
	return &t, nil
}

// GetInventoryCodes возвращает номера с фильтром по типу и подстроке
func (c *InventoryCodeController) GetInventoryCodes(ctx *fiber.Ctx) error {
	deviceType, err := optionalType(ctx.Query("type"))
	if err != nil {
		return respondError(ctx, err, "")
	}
	limit, offset := pagination(ctx)

	codes, err := c.codes.List(deviceType, ctx.Query("term"), limit, offset)
	if err != nil {
		return respondError(ctx, err, "Failed to get inventory codes")
	}

	return ctx.JSON(fiber.Map{
		"success":         true,
		"inventory_codes": codes,
		"limit":           limit,
		"offset":          offset,
	})
}

// GetAvailable возвращает до 10 номеров типа type, не привязанных к устройству этого типа
func (c *InventoryCodeController) GetAvailable(ctx *fiber.Ctx) error {
	raw := ctx.Query("type")
	if raw == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "type parameter is required",
		})
	}
	deviceType, err := models.ParseDeviceType(raw)
	if err != nil {
		return respondError(ctx, services.ErrInvalidKind, "")
	}

	codes, err := c.codes.Available(deviceType, ctx.Query("term"))
	if err != nil {
		return respondError(ctx, err, "Failed to get available codes")
	}

	results := make([]AvailableResult, 0, len(codes))
	for _, ic := range codes {
		results = append(results, AvailableResult{
			ID:   strconv.FormatUint(uint64(ic.ID), 10),
			Text: ic.Code,
		})
	}

	return ctx.JSON(fiber.Map{
		"results": results,
		"pagination": fiber.Map{
			"more": false,
		},
	})
}

// GetInventoryCode возвращает номер и его подпись
func (c *InventoryCodeController) GetInventoryCode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	ic, err := c.codes.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get inventory code")
	}

	return ctx.JSON(fiber.Map{
		"success":        true,
		"inventory_code": ic,
		"label":          c.codes.Label(ic),
	})
}

// GetOwner возвращает устройство, которому принадлежит номер, или null
func (c *InventoryCodeController) GetOwner(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	ic, err := c.codes.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get inventory code")
	}

	owner := c.codes.ResolveOwningDevice(ic)
	if owner == nil {
		return ctx.JSON(fiber.Map{
			"success": true,
			"owner":   nil,
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"owner": fiber.Map{
			"kind":   owner.DeviceKind(),
			"id":     owner.DeviceID(),
			"device": owner,
		},
	})
}

// CreateInventoryCode создает номер
func (c *InventoryCodeController) CreateInventoryCode(ctx *fiber.Ctx) error {
	var req InventoryCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	deviceType, err := optionalType(req.DeviceType)
	if err != nil {
		return respondError(ctx, err, "")
	}

	ic, err := c.codes.Create(req.Code, deviceType)
	if err != nil {
		return respondError(ctx, err, "Failed to create inventory code")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success":        true,
		"message":        "Inventory code created successfully",
		"inventory_code": ic,
	})
}

// UpdateInventoryCode переименовывает номер; тип меняется только при сохранении устройства
func (c *InventoryCodeController) UpdateInventoryCode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	var req InventoryCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ic, err := c.codes.Rename(id, req.Code)
	if err != nil {
		return respondError(ctx, err, "Failed to update inventory code")
	}

	return ctx.JSON(fiber.Map{
		"success":        true,
		"message":        "Inventory code updated successfully",
		"inventory_code": ic,
	})
}

// DeleteInventoryCode удаляет номер, если он не привязан к устройству
func (c *InventoryCodeController) DeleteInventoryCode(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if err := c.codes.Delete(id); err != nil {
		return respondError(ctx, err, "Failed to delete inventory code")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Inventory code deleted successfully",
	})
}
