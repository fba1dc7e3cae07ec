package services

import "inventario-backend/models"

// ScopeFilter фильтры по уровням иерархии, как в выпадающих списках интерфейса
type ScopeFilter struct {
	AreaID    *uint // узел и его потомки на два уровня вниз
	SubareaID *uint // узел и его дети
	LocalID   *uint // только сам узел
}

// Empty возвращает true, если ни один фильтр не задан
func (f ScopeFilter) Empty() bool {
	return f.AreaID == nil && f.SubareaID == nil && f.LocalID == nil
}

// Scope множество узлов, которым должны принадлежать записи
type Scope struct {
	NodeIDs []uint
}

// ResolveScope превращает фильтры в множество ID узлов. Несколько фильтров пересекаются.
// Для пустого фильтра возвращается nil.
func (s *HierarchyService) ResolveScope(filter ScopeFilter) (*Scope, error) {
	if filter.Empty() {
		return nil, nil
	}

	var sets [][]uint

	if filter.AreaID != nil {
		ids, err := s.DescendantIDs(&models.OrgNode{ID: *filter.AreaID})
		if err != nil {
			return nil, err
		}
		sets = append(sets, ids)
	}

	if filter.SubareaID != nil {
		children, err := s.ChildIDs(*filter.SubareaID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, append([]uint{*filter.SubareaID}, children...))
	}

	if filter.LocalID != nil {
		sets = append(sets, []uint{*filter.LocalID})
	}

	return &Scope{NodeIDs: intersect(sets)}, nil
}

func intersect(sets [][]uint) []uint {
	counts := map[uint]int{}
	for _, set := range sets {
		seen := map[uint]bool{}
		for _, id := range set {
			if !seen[id] {
				seen[id] = true
				counts[id]++
			}
		}
	}

	// Сохраняем порядок первого множества
	result := []uint{}
	for _, id := range sets[0] {
		if counts[id] == len(sets) {
			result = append(result, id)
			counts[id] = 0
		}
	}
	return result
}
