package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DeviceType тип устройства, к которому привязан инвентарный номер
type DeviceType string

const (
	DeviceTypePC       DeviceType = "PC"
	DeviceTypeMonitor  DeviceType = "Monitor"
	DeviceTypeKeyboard DeviceType = "Keyboard"
	DeviceTypeMouse    DeviceType = "Mouse"
	DeviceTypePrinter  DeviceType = "Printer"
	DeviceTypeScanner  DeviceType = "Scanner"
	DeviceTypeUPS      DeviceType = "UPS"
)

// DeviceTypes все типы устройств в порядке отображения
var DeviceTypes = []DeviceType{
	DeviceTypePC,
	DeviceTypeMonitor,
	DeviceTypeKeyboard,
	DeviceTypeMouse,
	DeviceTypePrinter,
	DeviceTypeScanner,
	DeviceTypeUPS,
}

// PeripheralKinds типы периферийных устройств
var PeripheralKinds = []DeviceType{
	DeviceTypeMonitor,
	DeviceTypeKeyboard,
	DeviceTypeMouse,
	DeviceTypePrinter,
	DeviceTypeScanner,
	DeviceTypeUPS,
}

// deviceTypeInfo метаданные для отображения и разбора типа
var deviceTypeInfo = map[DeviceType]struct {
	slug   string
	plural string
	label  string
}{
	DeviceTypePC:       {"pc", "pcs", "PCs"},
	DeviceTypeMonitor:  {"monitor", "monitors", "Monitores"},
	DeviceTypeKeyboard: {"keyboard", "keyboards", "Teclados"},
	DeviceTypeMouse:    {"mouse", "mice", "Mouse"},
	DeviceTypePrinter:  {"printer", "printers", "Impresoras"},
	DeviceTypeScanner:  {"scanner", "scanners", "Escáneres"},
	DeviceTypeUPS:      {"ups", "ups", "UPS"},
}

// Valid проверяет, что тип входит в закрытый список
func (t DeviceType) Valid() bool {
	_, ok := deviceTypeInfo[t]
	return ok
}

// IsPeripheral возвращает true для всех типов, кроме ПК
func (t DeviceType) IsPeripheral() bool {
	return t.Valid() && t != DeviceTypePC
}

// Slug короткое имя для URL и ключей JSON
func (t DeviceType) Slug() string {
	return deviceTypeInfo[t].slug
}

// Plural имя коллекции (используется в маршрутах экспорта и импорта)
func (t DeviceType) Plural() string {
	return deviceTypeInfo[t].plural
}

// Label заголовок для таблиц экспорта
func (t DeviceType) Label() string {
	return deviceTypeInfo[t].label
}

// ParseDeviceType разбирает тип по имени, slug или имени коллекции без учета регистра
func ParseDeviceType(s string) (DeviceType, error) {
	s = strings.TrimSpace(s)
	for _, t := range DeviceTypes {
		info := deviceTypeInfo[t]
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, info.slug) || strings.EqualFold(s, info.plural) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown device type %q", s)
}

// InventoryCode представляет инвентарный номер (бирку) устройства.
// Пара (Code, DeviceType) уникальна; DeviceType пуст, пока номер не привязан к устройству.
type InventoryCode struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	Code       string      `json:"code" gorm:"not null;size:50;uniqueIndex:idx_code_device_type"`
	DeviceType *DeviceType `json:"device_type" gorm:"size:50;uniqueIndex:idx_code_device_type"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// BeforeCreate хук для установки времени создания
func (c *InventoryCode) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (c *InventoryCode) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}

// TypeOf возвращает указатель на тип, удобно для литералов
func TypeOf(t DeviceType) *DeviceType {
	return &t
}

// Device общий интерфейс ПК и периферии
type Device interface {
	DeviceKind() DeviceType
	DeviceID() uint
	ResponsiblePersonID() *uint
}
