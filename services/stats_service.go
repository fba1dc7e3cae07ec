package services

import (
	"fmt"
	"strconv"

	"inventario-backend/models"

	"gorm.io/gorm"
)

// NoData отображается, когда в поддереве нет записей
const NoData = "-"

// Stats количество исправных и всех устройств
type Stats struct {
	Working int64 `json:"working"`
	Total   int64 `json:"total"`
}

// String возвращает "-" для пустой статистики и "исправные/всего" иначе
func (s Stats) String() string {
	if s.Total == 0 {
		return NoData
	}
	return fmt.Sprintf("%d/%d", s.Working, s.Total)
}

// FormatCount возвращает "-" для нуля и число иначе
func FormatCount(n int64) string {
	if n == 0 {
		return NoData
	}
	return strconv.FormatInt(n, 10)
}

// NodeSummary сводка по поддереву узла
type NodeSummary struct {
	Node    models.OrgNode               `json:"node"`
	Label   string                       `json:"label"`
	Persons string                       `json:"persons"`
	Devices map[models.DeviceType]string `json:"devices"`
}

// StatsService считает агрегаты по поддеревьям при каждом запросе, без кэша
type StatsService struct {
	db        *gorm.DB
	hierarchy *HierarchyService
}

// NewStatsService создает новый сервис статистики
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, hierarchy: NewHierarchyService(db)}
}

// SubtreeStats считает устройства вида kind в узле и его потомках (два уровня вниз)
func (s *StatsService) SubtreeStats(node *models.OrgNode, kind models.DeviceType) (Stats, error) {
	if !kind.Valid() {
		return Stats{}, ErrInvalidKind
	}

	ids, err := s.hierarchy.DescendantIDs(node)
	if err != nil {
		return Stats{}, err
	}

	var query *gorm.DB
	if kind == models.DeviceTypePC {
		query = s.db.Model(&models.PC{}).Where("org_node_id IN ?", ids)
	} else {
		query = s.db.Model(&models.Peripheral{}).Where("kind = ? AND org_node_id IN ?", kind, ids)
	}

	var stats Stats
	if err := query.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return Stats{}, err
	}
	if stats.Total == 0 {
		return stats, nil
	}
	if err := query.Session(&gorm.Session{}).Where("works = ?", true).Count(&stats.Working).Error; err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// PersonCount считает ответственных в узле и его потомках
func (s *StatsService) PersonCount(node *models.OrgNode) (int64, error) {
	ids, err := s.hierarchy.DescendantIDs(node)
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.db.Model(&models.Person{}).Where("org_node_id IN ?", ids).Count(&count).Error
	return count, err
}

// Summary собирает сводку по всем видам устройств и ответственным
func (s *StatsService) Summary(node *models.OrgNode) (*NodeSummary, error) {
	label, err := s.hierarchy.FullLabel(node)
	if err != nil {
		return nil, err
	}

	persons, err := s.PersonCount(node)
	if err != nil {
		return nil, err
	}

	summary := &NodeSummary{
		Node:    *node,
		Label:   label,
		Persons: FormatCount(persons),
		Devices: make(map[models.DeviceType]string, len(models.DeviceTypes)),
	}
	for _, kind := range models.DeviceTypes {
		stats, err := s.SubtreeStats(node, kind)
		if err != nil {
			return nil, err
		}
		summary.Devices[kind] = stats.String()
	}
	return summary, nil
}

// Totals считает устройства каждого вида по всему инвентарю, включая устройства без узла
func (s *StatsService) Totals() (map[models.DeviceType]Stats, error) {
	totals := make(map[models.DeviceType]Stats, len(models.DeviceTypes))
	for _, kind := range models.DeviceTypes {
		var query *gorm.DB
		if kind == models.DeviceTypePC {
			query = s.db.Model(&models.PC{})
		} else {
			query = s.db.Model(&models.Peripheral{}).Where("kind = ?", kind)
		}

		var stats Stats
		if err := query.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
			return nil, err
		}
		if err := query.Session(&gorm.Session{}).Where("works = ?", true).Count(&stats.Working).Error; err != nil {
			return nil, err
		}
		totals[kind] = stats
	}
	return totals, nil
}
