package services

import (
	"errors"
	"fmt"

	"inventario-backend/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrNodeInUse        = errors.New("org node is referenced by devices or persons")
	ErrCodeInUse        = errors.New("inventory code is bound to a device")
	ErrDuplicateNode    = errors.New("org node with this name already exists under the same parent")
	ErrDuplicateCode    = errors.New("inventory code already exists for this device type")
	ErrDuplicateName    = errors.New("component with this name already exists")
	ErrHierarchyCycle   = errors.New("org node cannot be moved under itself or its descendant")
	ErrInvalidKind      = errors.New("invalid device kind")
	ErrOrgNodeRequired  = errors.New("org node is required")
	ErrEmptyName        = errors.New("name is required")
	ErrCodeTypeMismatch = errors.New("inventory code belongs to another device type")
)

// ConflictError возникает при попытке привязать инвентарный номер,
// который уже занят устройством того же вида, связанным с другим ПК
type ConflictError struct {
	Kind    models.DeviceType
	Code    string
	PCLabel string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with inventory code %s is already assigned to %s", e.Kind, e.Code, e.PCLabel)
}

// IsConflict проверяет, является ли ошибка конфликтом привязки
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
