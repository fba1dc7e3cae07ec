package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Person представляет ответственное лицо
type Person struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	NameKey   string    `json:"-" gorm:"not null;size:100;index"` // имя в нижнем регистре для поиска без учета регистра
	OrgNodeID *uint     `json:"org_node_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	OrgNode *OrgNode `json:"org_node,omitempty" gorm:"foreignKey:OrgNodeID"`
}

// TableName задаёт имя таблицы для GORM
func (Person) TableName() string {
	return "persons"
}

// BeforeSave поддерживает ключ поиска в актуальном состоянии
func (p *Person) BeforeSave(tx *gorm.DB) error {
	p.NameKey = NameKey(p.Name)
	return nil
}

// BeforeCreate хук для установки времени создания
func (p *Person) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (p *Person) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// NameKey ключ для сравнения имен без учета регистра
func NameKey(name string) string {
	return strings.ToLower(name)
}
