package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultBrand марка по умолчанию для периферии
const DefaultBrand = "Sin especificar"

// Peripheral представляет периферийное устройство любого вида (монитор, клавиатура и т.д.).
// Один инвентарный номер может принадлежать только одному устройству данного вида.
type Peripheral struct {
	ID                     uint       `json:"id" gorm:"primaryKey"`
	Kind                   DeviceType `json:"kind" gorm:"not null;size:20;index;uniqueIndex:idx_peripheral_kind_code"`
	InventoryCodeID        *uint      `json:"inventory_code_id" gorm:"uniqueIndex:idx_peripheral_kind_code"`
	AssociatedPCID         *uint      `json:"associated_pc_id" gorm:"column:associated_pc_id;index"`
	ResponsibleID          *uint      `json:"responsible_id" gorm:"index"`
	OrgNodeID              *uint      `json:"org_node_id" gorm:"index"`
	Works                  bool       `json:"works" gorm:"not null"`
	IsInternationalProject bool       `json:"is_international_project" gorm:"not null"`
	Brand                  string     `json:"brand" gorm:"not null;size:100"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	// Связи
	InventoryCode *InventoryCode `json:"inventory_code,omitempty" gorm:"foreignKey:InventoryCodeID"`
	AssociatedPC  *PC            `json:"associated_pc,omitempty" gorm:"foreignKey:AssociatedPCID"`
	Responsible   *Person        `json:"responsible,omitempty" gorm:"foreignKey:ResponsibleID"`
	OrgNode       *OrgNode       `json:"org_node,omitempty" gorm:"foreignKey:OrgNodeID"`
}

// TableName задаёт имя таблицы для GORM
func (Peripheral) TableName() string {
	return "peripherals"
}

// BeforeCreate хук для установки времени создания и марки по умолчанию
func (p *Peripheral) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.Brand) == "" {
		p.Brand = DefaultBrand
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (p *Peripheral) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Peripheral) DeviceKind() DeviceType     { return p.Kind }
func (p *Peripheral) DeviceID() uint             { return p.ID }
func (p *Peripheral) ResponsiblePersonID() *uint { return p.ResponsibleID }

// Label человекочитаемое имя; используются загруженные связи
func (p *Peripheral) Label() string {
	var parts []string
	if p.InventoryCode != nil {
		parts = append(parts, p.InventoryCode.Code)
	}
	if p.Responsible != nil {
		parts = append(parts, "of "+p.Responsible.Name)
	}
	if p.OrgNode != nil {
		parts = append(parts, "in "+p.OrgNode.Name)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if p.Brand != "" {
		return p.Brand
	}
	return "Without identification"
}
