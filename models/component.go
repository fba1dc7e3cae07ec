package models

// ComponentCategory категория внутреннего компонента ПК
type ComponentCategory string

const (
	ComponentOS   ComponentCategory = "os"
	ComponentCPU  ComponentCategory = "cpu"
	ComponentRAM  ComponentCategory = "ram"
	ComponentDisk ComponentCategory = "disk"
)

// ComponentCategories все категории справочника
var ComponentCategories = []ComponentCategory{ComponentOS, ComponentCPU, ComponentRAM, ComponentDisk}

// Valid проверяет категорию
func (c ComponentCategory) Valid() bool {
	switch c {
	case ComponentOS, ComponentCPU, ComponentRAM, ComponentDisk:
		return true
	}
	return false
}

// Column имя колонки в таблице pcs, ссылающейся на компонент этой категории
func (c ComponentCategory) Column() string {
	switch c {
	case ComponentOS:
		return "operating_system_id"
	case ComponentCPU:
		return "processor_id"
	case ComponentRAM:
		return "ram_id"
	case ComponentDisk:
		return "disk_id"
	}
	return ""
}

// Component элемент справочника: операционная система, процессор, объем RAM или диска
type Component struct {
	ID       uint              `json:"id" gorm:"primaryKey"`
	Category ComponentCategory `json:"category" gorm:"not null;size:10;uniqueIndex:idx_component_category_name"`
	Name     string            `json:"name" gorm:"not null;size:100;uniqueIndex:idx_component_category_name"`
}
