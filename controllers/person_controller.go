package controllers

import (
	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PersonController обрабатывает HTTP запросы для ответственных
type PersonController struct {
	persons   *services.PersonService
	hierarchy *services.HierarchyService
}

// NewPersonController создает новый контроллер ответственных
func NewPersonController(db *gorm.DB) *PersonController {
	return &PersonController{
		persons:   services.NewPersonService(db),
		hierarchy: services.NewHierarchyService(db),
	}
}

// PersonRequest структура запроса создания и изменения ответственного
type PersonRequest struct {
	Name      string `json:"name"`
	OrgNodeID *uint  `json:"org_node_id"`
}

// GetPersons возвращает ответственных с фильтрами иерархии и поиском по имени
func (c *PersonController) GetPersons(ctx *fiber.Ctx) error {
	scope, err := resolveScope(ctx, c.hierarchy)
	if err != nil {
		return respondError(ctx, err, "Failed to resolve filters")
	}
	limit, offset := pagination(ctx)

	persons, err := c.persons.List(scope, ctx.Query("q"), limit, offset)
	if err != nil {
		return respondError(ctx, err, "Failed to get persons")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"persons": persons,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetPerson возвращает ответственного по ID
func (c *PersonController) GetPerson(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	person, err := c.persons.Get(id)
	if err != nil {
		return respondError(ctx, err, "Failed to get person")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"person":  person,
	})
}

// GetDevices возвращает количество устройств каждого вида у ответственного
func (c *PersonController) GetDevices(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if _, err := c.persons.Get(id); err != nil {
		return respondError(ctx, err, "Failed to get person")
	}

	counts, err := c.persons.DeviceCounts(id)
	if err != nil {
		return respondError(ctx, err, "Failed to count devices")
	}

	devices := make(map[models.DeviceType]string, len(counts))
	for kind, n := range counts {
		devices[kind] = services.FormatCount(n)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"devices": devices,
	})
}

// CreatePerson создает ответственного
func (c *PersonController) CreatePerson(ctx *fiber.Ctx) error {
	var req PersonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	person, err := c.persons.Create(req.Name, req.OrgNodeID)
	if err != nil {
		return respondError(ctx, err, "Failed to create person")
	}

	return ctx.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Person created successfully",
		"person":  person,
	})
}

// UpdatePerson меняет имя и узел ответственного
func (c *PersonController) UpdatePerson(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	var req PersonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	person, err := c.persons.Update(id, req.Name, req.OrgNodeID)
	if err != nil {
		return respondError(ctx, err, "Failed to update person")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Person updated successfully",
		"person":  person,
	})
}

// DeletePerson удаляет ответственного
func (c *PersonController) DeletePerson(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return respondError(ctx, err, "")
	}

	if err := c.persons.Delete(id); err != nil {
		return respondError(ctx, err, "Failed to delete person")
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Person deleted successfully",
	})
}
