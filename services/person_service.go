package services

import (
	"errors"
	"strings"

	"inventario-backend/models"

	"gorm.io/gorm"
)

// PersonService справочник ответственных лиц
type PersonService struct {
	db *gorm.DB
}

// NewPersonService создает новый сервис ответственных
func NewPersonService(db *gorm.DB) *PersonService {
	return &PersonService{db: db}
}

// NormalizeName схлопывает пробелы и убирает пометки "(nuevo)" из имени
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.ReplaceAll(name, " (nuevo)", "")
	name = strings.ReplaceAll(name, " (Nuevo)", "")
	return name
}

// FindByName ищет ответственного по нормализованному имени без учета регистра
func (s *PersonService) FindByName(name string) (*models.Person, error) {
	var person models.Person
	err := s.db.Where("name_key = ?", models.NameKey(NormalizeName(name))).Order("id").First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

// GetOrCreateByName ищет ответственного по имени, создавая его с узлом по умолчанию.
// Узел существующего ответственного не меняется, см. BackfillOrgNode.
func (s *PersonService) GetOrCreateByName(name string, defaultOrgNodeID *uint) (*models.Person, bool, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	person, err := s.FindByName(name)
	if err == nil {
		return person, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	person = &models.Person{Name: name, OrgNodeID: defaultOrgNodeID}
	if err := s.db.Create(person).Error; err != nil {
		return nil, false, err
	}
	return person, true, nil
}

// BackfillOrgNode заполняет узел ответственного, если он еще не задан
func (s *PersonService) BackfillOrgNode(person *models.Person, orgNodeID uint) (bool, error) {
	if person.OrgNodeID != nil {
		return false, nil
	}
	person.OrgNodeID = &orgNodeID
	if err := s.db.Save(person).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Get возвращает ответственного по ID
func (s *PersonService) Get(id uint) (*models.Person, error) {
	var person models.Person
	if err := s.db.Preload("OrgNode").First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

// List возвращает ответственных с необязательной фильтрацией по иерархии и имени
func (s *PersonService) List(scope *Scope, search string, limit, offset int) ([]models.Person, error) {
	query := s.db.Preload("OrgNode").Order("name")
	if scope != nil {
		query = query.Where("org_node_id IN ?", scope.NodeIDs)
	}
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("name_key LIKE ?", "%"+models.NameKey(search)+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var persons []models.Person
	err := query.Find(&persons).Error
	return persons, err
}

// Create создает ответственного
func (s *PersonService) Create(name string, orgNodeID *uint) (*models.Person, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := s.checkNode(orgNodeID); err != nil {
		return nil, err
	}

	person := models.Person{Name: name, OrgNodeID: orgNodeID}
	if err := s.db.Create(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// Update меняет имя и узел ответственного
func (s *PersonService) Update(id uint, name string, orgNodeID *uint) (*models.Person, error) {
	person, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name = NormalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := s.checkNode(orgNodeID); err != nil {
		return nil, err
	}

	person.Name = name
	person.OrgNodeID = orgNodeID
	person.OrgNode = nil
	if err := s.db.Save(person).Error; err != nil {
		return nil, err
	}
	return person, nil
}

// Delete удаляет ответственного; ссылки устройств на него обнуляются
func (s *PersonService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PC{}).Where("responsible_id = ?", id).
			Update("responsible_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Peripheral{}).Where("responsible_id = ?", id).
			Update("responsible_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Person{}, id).Error
	})
}

// DeviceCounts считает устройства каждого вида, закрепленные за ответственным
func (s *PersonService) DeviceCounts(id uint) (map[models.DeviceType]int64, error) {
	counts := make(map[models.DeviceType]int64, len(models.DeviceTypes))

	var pcs int64
	if err := s.db.Model(&models.PC{}).Where("responsible_id = ?", id).Count(&pcs).Error; err != nil {
		return nil, err
	}
	counts[models.DeviceTypePC] = pcs

	var rows []struct {
		Kind  models.DeviceType
		Total int64
	}
	err := s.db.Model(&models.Peripheral{}).
		Select("kind, COUNT(*) AS total").
		Where("responsible_id = ?", id).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, kind := range models.PeripheralKinds {
		counts[kind] = 0
	}
	for _, row := range rows {
		counts[row.Kind] = row.Total
	}
	return counts, nil
}

func (s *PersonService) checkNode(orgNodeID *uint) error {
	if orgNodeID == nil {
		return nil
	}
	var count int64
	if err := s.db.Model(&models.OrgNode{}).Where("id = ?", *orgNodeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
