package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PC представляет рабочую станцию
type PC struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	InventoryCodeID        *uint     `json:"inventory_code_id" gorm:"uniqueIndex"`
	ResponsibleID          *uint     `json:"responsible_id" gorm:"index"`
	OrgNodeID              uint      `json:"org_node_id" gorm:"not null;index"`
	Works                  bool      `json:"works" gorm:"not null"`
	IsInternationalProject bool      `json:"is_international_project" gorm:"not null"`
	OperatingSystemID      *uint     `json:"operating_system_id" gorm:"index"`
	ProcessorID            *uint     `json:"processor_id" gorm:"index"`
	RAMID                  *uint     `json:"ram_id" gorm:"column:ram_id;index"`
	DiskID                 *uint     `json:"disk_id" gorm:"index"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	// Связи
	InventoryCode   *InventoryCode `json:"inventory_code,omitempty" gorm:"foreignKey:InventoryCodeID"`
	Responsible     *Person        `json:"responsible,omitempty" gorm:"foreignKey:ResponsibleID"`
	OrgNode         *OrgNode       `json:"org_node,omitempty" gorm:"foreignKey:OrgNodeID"`
	OperatingSystem *Component     `json:"operating_system,omitempty" gorm:"foreignKey:OperatingSystemID"`
	Processor       *Component     `json:"processor,omitempty" gorm:"foreignKey:ProcessorID"`
	RAM             *Component     `json:"ram,omitempty" gorm:"foreignKey:RAMID"`
	Disk            *Component     `json:"disk,omitempty" gorm:"foreignKey:DiskID"`
}

// TableName задаёт имя таблицы для GORM
func (PC) TableName() string {
	return "pcs"
}

// BeforeCreate хук для установки времени создания
func (pc *PC) BeforeCreate(tx *gorm.DB) error {
	pc.CreatedAt = time.Now()
	pc.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (pc *PC) BeforeUpdate(tx *gorm.DB) error {
	pc.UpdatedAt = time.Now()
	return nil
}

func (pc *PC) DeviceKind() DeviceType     { return DeviceTypePC }
func (pc *PC) DeviceID() uint             { return pc.ID }
func (pc *PC) ResponsiblePersonID() *uint { return pc.ResponsibleID }

// Label человекочитаемое имя ПК; связи InventoryCode и Responsible должны быть загружены
func (pc *PC) Label() string {
	switch {
	case pc.InventoryCode != nil:
		return fmt.Sprintf("PC %s", pc.InventoryCode.Code)
	case pc.Responsible != nil:
		return fmt.Sprintf("PC of %s", pc.Responsible.Name)
	default:
		return "PC without identification"
	}
}

// ComponentID возвращает ссылку на компонент нужной категории
func (pc *PC) ComponentID(category ComponentCategory) *uint {
	switch category {
	case ComponentOS:
		return pc.OperatingSystemID
	case ComponentCPU:
		return pc.ProcessorID
	case ComponentRAM:
		return pc.RAMID
	case ComponentDisk:
		return pc.DiskID
	}
	return nil
}

// SetComponentID устанавливает ссылку на компонент нужной категории
func (pc *PC) SetComponentID(category ComponentCategory, id *uint) {
	switch category {
	case ComponentOS:
		pc.OperatingSystemID = id
	case ComponentCPU:
		pc.ProcessorID = id
	case ComponentRAM:
		pc.RAMID = id
	case ComponentDisk:
		pc.DiskID = id
	}
}
