package controllers

import (
	"errors"
	"log"
	"strconv"

	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
)

var errInvalidID = errors.New("invalid id")

// parseID читает числовой параметр маршрута
func parseID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// optionalID читает необязательный числовой query параметр
func optionalID(ctx *fiber.Ctx, name string) (*uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, errInvalidID
	}
	v := uint(id)
	return &v, nil
}

// pagination параметры limit/offset; limit 0 означает без ограничения
func pagination(ctx *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(ctx.Query("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}
	offset, err := strconv.Atoi(ctx.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// resolveScope разбирает фильтры area, subarea и local
func resolveScope(ctx *fiber.Ctx, hierarchy *services.HierarchyService) (*services.Scope, error) {
	var filter services.ScopeFilter
	var err error
	if filter.AreaID, err = optionalID(ctx, "area"); err != nil {
		return nil, err
	}
	if filter.SubareaID, err = optionalID(ctx, "subarea"); err != nil {
		return nil, err
	}
	if filter.LocalID, err = optionalID(ctx, "local"); err != nil {
		return nil, err
	}
	return hierarchy.ResolveScope(filter)
}

// respondError переводит ошибки сервисов в HTTP статусы
func respondError(ctx *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, errInvalidID):
		status, message = fiber.StatusBadRequest, "Invalid ID"
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case services.IsConflict(err),
		errors.Is(err, services.ErrNodeInUse),
		errors.Is(err, services.ErrCodeInUse),
		errors.Is(err, services.ErrDuplicateNode),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrDuplicateName):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrHierarchyCycle),
		errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrOrgNodeRequired),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrCodeTypeMismatch):
		status, message = fiber.StatusBadRequest, err.Error()
	default:
		log.Printf("%s: %v", fallback, err)
	}

	return ctx.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
