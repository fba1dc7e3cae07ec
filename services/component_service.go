package services

import (
	"errors"
	"strings"

	"inventario-backend/models"

	"gorm.io/gorm"
)

// DefaultComponents начальное наполнение справочника компонентов
var DefaultComponents = map[models.ComponentCategory][]string{
	models.ComponentCPU: {
		"celeron", "Pentium III", "Pentium IV", "Dual Core", "Core 2 Duo",
		"Core i3", "Core i5", "Core i7", "Xeon", "AMD", "ATOM", "Pentium Gold",
		"Pentium G2030",
	},
	models.ComponentRAM:  {"256 MB", "512MB", "1GB", "2GB", "4GB", "6GB", "8GB", "16GB"},
	models.ComponentDisk: {"128GB", "160GB", "200GB", "256GB", "480GB", "512GB", "580GB", "1TB", "2TB"},
	models.ComponentOS:   {"W7", "W8", "W8.1", "W10", "W11"},
}

// ComponentService справочник внутренних компонентов ПК
type ComponentService struct {
	db *gorm.DB
}

// NewComponentService создает новый сервис компонентов
func NewComponentService(db *gorm.DB) *ComponentService {
	return &ComponentService{db: db}
}

// GetOrCreate возвращает компонент категории по имени, создавая его при отсутствии
func (s *ComponentService) GetOrCreate(category models.ComponentCategory, name string) (*models.Component, bool, error) {
	if !category.Valid() {
		return nil, false, errors.New("invalid component category")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	var component models.Component
	err := s.db.Where("category = ? AND name = ?", category, name).First(&component).Error
	if err == nil {
		return &component, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	component = models.Component{Category: category, Name: name}
	if err := s.db.Create(&component).Error; err != nil {
		return nil, false, err
	}
	return &component, true, nil
}

// Seed заполняет справочник значениями по умолчанию; fn вызывается для каждого элемента
func (s *ComponentService) Seed(fn func(c *models.Component, created bool)) error {
	for _, category := range []models.ComponentCategory{
		models.ComponentCPU, models.ComponentRAM, models.ComponentDisk, models.ComponentOS,
	} {
		for _, name := range DefaultComponents[category] {
			component, created, err := s.GetOrCreate(category, name)
			if err != nil {
				return err
			}
			if fn != nil {
				fn(component, created)
			}
		}
	}
	return nil
}

// List возвращает компоненты, при необходимости только одной категории
func (s *ComponentService) List(category *models.ComponentCategory) ([]models.Component, error) {
	query := s.db.Order("category").Order("name")
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var components []models.Component
	err := query.Find(&components).Error
	return components, err
}

// Get возвращает компонент по ID
func (s *ComponentService) Get(id uint) (*models.Component, error) {
	var component models.Component
	if err := s.db.First(&component, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// Create добавляет компонент; имя уникально внутри категории
func (s *ComponentService) Create(category models.ComponentCategory, name string) (*models.Component, error) {
	component, created, err := s.GetOrCreate(category, name)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateName
	}
	return component, nil
}

// Delete удаляет компонент, обнуляя ссылки ПК на него
func (s *ComponentService) Delete(id uint) error {
	component, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		column := component.Category.Column()
		if err := tx.Model(&models.PC{}).Where(column+" = ?", component.ID).
			Update(column, nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Component{}, component.ID).Error
	})
}
