package services

import (
	"errors"
	"strings"

	"inventario-backend/models"

	"gorm.io/gorm"
)

// HierarchyService работает с деревом организационных единиц
type HierarchyService struct {
	db *gorm.DB
}

// NewHierarchyService создает новый сервис иерархии
func NewHierarchyService(db *gorm.DB) *HierarchyService {
	return &HierarchyService{db: db}
}

// Get возвращает узел по ID
func (s *HierarchyService) Get(id uint) (*models.OrgNode, error) {
	var node models.OrgNode
	if err := s.db.Preload("Parent").First(&node, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &node, nil
}

// Find ищет узел по имени и родителю
func (s *HierarchyService) Find(name string, parentID *uint) (*models.OrgNode, error) {
	var node models.OrgNode
	query := s.db.Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &node, nil
}

// Create создает узел; имя должно быть уникально среди детей одного родителя
func (s *HierarchyService) Create(name string, parentID *uint) (*models.OrgNode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if parentID != nil {
		if _, err := s.Get(*parentID); err != nil {
			return nil, err
		}
	}

	if _, err := s.Find(name, parentID); err == nil {
		return nil, ErrDuplicateNode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	node := models.OrgNode{Name: name, ParentID: parentID}
	if err := s.db.Create(&node).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// GetOrCreate возвращает существующий узел или создает новый
func (s *HierarchyService) GetOrCreate(name string, parentID *uint) (*models.OrgNode, bool, error) {
	node, err := s.Find(name, parentID)
	if err == nil {
		return node, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	node, err = s.Create(name, parentID)
	if err != nil {
		return nil, false, err
	}
	return node, true, nil
}

// Update переименовывает и/или переносит узел
func (s *HierarchyService) Update(id uint, name string, parentID *uint) (*models.OrgNode, error) {
	node, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if parentID != nil {
		if *parentID == id {
			return nil, ErrHierarchyCycle
		}
		ancestors, err := s.ancestors(*parentID)
		if err != nil {
			return nil, err
		}
		for _, a := range ancestors {
			if a.ID == id {
				return nil, ErrHierarchyCycle
			}
		}
	}

	if other, err := s.Find(name, parentID); err == nil && other.ID != id {
		return nil, ErrDuplicateNode
	}

	node.Name = name
	node.ParentID = parentID
	node.Parent = nil
	if err := s.db.Save(node).Error; err != nil {
		return nil, err
	}
	return node, nil
}

// ChildIDs возвращает ID прямых потомков
func (s *HierarchyService) ChildIDs(id uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.OrgNode{}).Where("parent_id = ?", id).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// DescendantIDs возвращает ID узла, его детей и внуков.
// Обход ограничен двумя уровнями: правнуки не учитываются.
func (s *HierarchyService) DescendantIDs(node *models.OrgNode) ([]uint, error) {
	ids := []uint{node.ID}

	children, err := s.ChildIDs(node.ID)
	if err != nil {
		return nil, err
	}
	for _, childID := range children {
		ids = append(ids, childID)

		grandchildren, err := s.ChildIDs(childID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, grandchildren...)
	}

	return ids, nil
}

// ancestors возвращает цепочку от узла до корня включительно
func (s *HierarchyService) ancestors(id uint) ([]models.OrgNode, error) {
	var chain []models.OrgNode
	seen := map[uint]bool{}

	current := &id
	for current != nil && !seen[*current] {
		seen[*current] = true

		var node models.OrgNode
		if err := s.db.First(&node, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		chain = append(chain, node)
		current = node.ParentID
	}

	return chain, nil
}

// FullLabel возвращает полное имя узла "Area - Department - Local"
func (s *HierarchyService) FullLabel(node *models.OrgNode) (string, error) {
	chain, err := s.ancestors(node.ID)
	if err != nil {
		return "", err
	}

	names := make([]string, len(chain))
	for i, n := range chain {
		names[len(chain)-1-i] = n.Name
	}
	return strings.Join(names, " - "), nil
}

// Level возвращает уровень узла
func (s *HierarchyService) Level(node *models.OrgNode) (models.OrgLevel, error) {
	if node.ParentID == nil {
		return models.OrgLevelTop, nil
	}
	var parent models.OrgNode
	if err := s.db.First(&parent, *node.ParentID).Error; err != nil {
		return "", err
	}
	if parent.ParentID == nil {
		return models.OrgLevelSecond, nil
	}
	return models.OrgLevelThird, nil
}

// NodesAtLevel возвращает узлы уровня, отсортированные по имени.
// top: родителя нет; second: родитель есть, у него родителя нет; third: есть дедушка.
func (s *HierarchyService) NodesAtLevel(level models.OrgLevel) ([]models.OrgNode, error) {
	var nodes []models.OrgNode
	query := s.db.Model(&models.OrgNode{}).Select("org_nodes.*")

	switch level {
	case models.OrgLevelTop:
		query = query.Where("org_nodes.parent_id IS NULL")
	case models.OrgLevelSecond:
		query = query.Joins("JOIN org_nodes parents ON parents.id = org_nodes.parent_id").
			Where("parents.parent_id IS NULL")
	case models.OrgLevelThird:
		query = query.Joins("JOIN org_nodes parents ON parents.id = org_nodes.parent_id").
			Where("parents.parent_id IS NOT NULL")
	default:
		return nil, errors.New("unknown org level")
	}

	err := query.Order("org_nodes.name").Find(&nodes).Error
	return nodes, err
}

// List возвращает все узлы, упорядоченные по имени родителя и собственному имени
func (s *HierarchyService) List(scope *Scope) ([]models.OrgNode, error) {
	var nodes []models.OrgNode
	query := s.db.Preload("Parent").
		Select("org_nodes.*").
		Joins("LEFT JOIN org_nodes parents ON parents.id = org_nodes.parent_id").
		Order("parents.name").Order("org_nodes.name")
	if scope != nil {
		query = query.Where("org_nodes.id IN ?", scope.NodeIDs)
	}
	err := query.Find(&nodes).Error
	return nodes, err
}

// subtreeIDs собирает все узлы поддерева без ограничения глубины, потомки идут после предков
func (s *HierarchyService) subtreeIDs(id uint) ([]uint, error) {
	ids := []uint{id}
	seen := map[uint]bool{id: true}

	for i := 0; i < len(ids); i++ {
		children, err := s.ChildIDs(ids[i])
		if err != nil {
			return nil, err
		}
		for _, childID := range children {
			if !seen[childID] {
				seen[childID] = true
				ids = append(ids, childID)
			}
		}
	}
	return ids, nil
}

// Delete удаляет узел вместе со всеми потомками.
// Удаление запрещено, если на любой узел поддерева ссылаются устройства или ответственные.
func (s *HierarchyService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		h := NewHierarchyService(tx)

		ids, err := h.subtreeIDs(id)
		if err != nil {
			return err
		}

		inUse, err := h.referenced(ids)
		if err != nil {
			return err
		}
		if inUse {
			return ErrNodeInUse
		}

		// Удаляем начиная с самых глубоких узлов
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Delete(&models.OrgNode{}, ids[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *HierarchyService) referenced(ids []uint) (bool, error) {
	for _, model := range []interface{}{&models.PC{}, &models.Peripheral{}, &models.Person{}} {
		var count int64
		if err := s.db.Model(model).Where("org_node_id IN ?", ids).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
