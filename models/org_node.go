package models

import (
	"time"

	"gorm.io/gorm"
)

// OrgNode представляет организационную единицу: Area -> Department -> Local.
// Пара (Name, ParentID) уникальна, одно имя допустимо у разных родителей.
type OrgNode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100;index"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Parent *OrgNode `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName задаёт имя таблицы для GORM
func (OrgNode) TableName() string {
	return "org_nodes"
}

// BeforeCreate хук для установки времени создания
func (n *OrgNode) BeforeCreate(tx *gorm.DB) error {
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (n *OrgNode) BeforeUpdate(tx *gorm.DB) error {
	n.UpdatedAt = time.Now()
	return nil
}

// OrgLevel уровень узла в номинальной трехуровневой иерархии
type OrgLevel string

const (
	OrgLevelTop    OrgLevel = "top"
	OrgLevelSecond OrgLevel = "second"
	OrgLevelThird  OrgLevel = "third"
)
