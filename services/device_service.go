package services

import (
	"errors"
	"strings"

	"inventario-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier получает события об изменениях инвентаря
type Notifier interface {
	Publish(eventType string, payload interface{})
}

// DeviceEvent payload событий device.saved и device.deleted
type DeviceEvent struct {
	Kind models.DeviceType `json:"kind"`
	ID   uint              `json:"id"`
}

// DeviceService реестр ПК и периферии
type DeviceService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewDeviceService создает новый сервис устройств; notifier может быть nil
func NewDeviceService(db *gorm.DB, notifier Notifier) *DeviceService {
	return &DeviceService{db: db, notifier: notifier}
}

// withTx возвращает сервис внутри транзакции; события публикует только внешний вызов после коммита
func (s *DeviceService) withTx(tx *gorm.DB) *DeviceService {
	return &DeviceService{db: tx}
}

func (s *DeviceService) publish(eventType string, kind models.DeviceType, id uint) {
	if s.notifier != nil {
		s.notifier.Publish(eventType, DeviceEvent{Kind: kind, ID: id})
	}
}

func (s *DeviceService) loadPerson(id *uint) (*models.Person, error) {
	if id == nil {
		return nil, nil
	}
	var person models.Person
	if err := s.db.First(&person, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (s *DeviceService) loadCode(id *uint) (*models.InventoryCode, error) {
	if id == nil {
		return nil, nil
	}
	var ic models.InventoryCode
	if err := s.db.First(&ic, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ic, nil
}

// ---------- ПК ----------

// SavePC синхронизирует узел с ответственным, привязывает номер к типу PC и сохраняет запись
func (s *DeviceService) SavePC(pc *models.PC) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		d := s.withTx(tx)

		responsible, err := d.loadPerson(pc.ResponsibleID)
		if err != nil {
			return err
		}
		SyncPC(pc, responsible)

		if pc.OrgNodeID == 0 {
			return ErrOrgNodeRequired
		}
		var nodes int64
		if err := tx.Model(&models.OrgNode{}).Where("id = ?", pc.OrgNodeID).Count(&nodes).Error; err != nil {
			return err
		}
		if nodes == 0 {
			return ErrNotFound
		}

		code, err := d.loadCode(pc.InventoryCodeID)
		if err != nil {
			return err
		}
		if code != nil {
			if err := NewInventoryCodeService(tx).BindDeviceType(code, models.DeviceTypePC); err != nil {
				return err
			}
		}

		return tx.Omit(clause.Associations).Save(pc).Error
	})
	if err != nil {
		return err
	}

	s.publish("device.saved", models.DeviceTypePC, pc.ID)
	return nil
}

// ValidatePC проверяет номер перед интерактивным сохранением:
// тип номера должен быть пустым или PC, номер не должен принадлежать другому ПК
func (s *DeviceService) ValidatePC(pc *models.PC) error {
	code, err := s.loadCode(pc.InventoryCodeID)
	if err != nil || code == nil {
		return err
	}
	if code.DeviceType != nil && *code.DeviceType != models.DeviceTypePC {
		return ErrCodeTypeMismatch
	}

	var count int64
	err = s.db.Model(&models.PC{}).
		Where("inventory_code_id = ? AND id <> ?", code.ID, pc.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCodeInUse
	}
	return nil
}

// SubmitPC интерактивное сохранение ПК: проверка и сохранение в одной транзакции
func (s *DeviceService) SubmitPC(pc *models.PC) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		d := s.withTx(tx)
		if err := d.ValidatePC(pc); err != nil {
			return err
		}
		return d.SavePC(pc)
	})
	if err != nil {
		return err
	}

	s.publish("device.saved", models.DeviceTypePC, pc.ID)
	return nil
}

// GetPC возвращает ПК со всеми связями
func (s *DeviceService) GetPC(id uint) (*models.PC, error) {
	var pc models.PC
	err := s.db.Preload("InventoryCode").Preload("Responsible").Preload("OrgNode").
		Preload("OperatingSystem").Preload("Processor").Preload("RAM").Preload("Disk").
		First(&pc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pc, nil
}

// PCFilter параметры списка ПК
type PCFilter struct {
	Scope      *Scope
	Components map[models.ComponentCategory]uint
	Search     string
	Limit      int
	Offset     int
}

// ListPCs возвращает ПК, упорядоченные по ответственному
func (s *DeviceService) ListPCs(filter PCFilter) ([]models.PC, error) {
	query := s.db.Model(&models.PC{}).
		Select("pcs.*").
		Joins("LEFT JOIN persons responsible ON responsible.id = pcs.responsible_id").
		Joins("LEFT JOIN inventory_codes codes ON codes.id = pcs.inventory_code_id").
		Preload("InventoryCode").Preload("Responsible").Preload("OrgNode").
		Preload("OperatingSystem").Preload("Processor").Preload("RAM").Preload("Disk").
		Order("responsible.name").Order("pcs.id")

	if filter.Scope != nil {
		query = query.Where("pcs.org_node_id IN ?", filter.Scope.NodeIDs)
	}
	for _, category := range models.ComponentCategories {
		if id, ok := filter.Components[category]; ok {
			query = query.Where("pcs."+category.Column()+" = ?", id)
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(codes.code) LIKE ? OR responsible.name_key LIKE ?", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var pcs []models.PC
	err := query.Find(&pcs).Error
	return pcs, err
}

// DeletePC удаляет ПК. Связанная периферия видов из deleteKinds удаляется,
// у остальной ссылка на ПК обнуляется.
func (s *DeviceService) DeletePC(id uint, deleteKinds []models.DeviceType) error {
	if _, err := s.GetPC(id); err != nil {
		return err
	}

	var deleted []models.Peripheral
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(deleteKinds) > 0 {
			for _, kind := range deleteKinds {
				if !kind.IsPeripheral() {
					return ErrInvalidKind
				}
			}
			if err := tx.Where("associated_pc_id = ? AND kind IN ?", id, deleteKinds).
				Find(&deleted).Error; err != nil {
				return err
			}
			if err := tx.Where("associated_pc_id = ? AND kind IN ?", id, deleteKinds).
				Delete(&models.Peripheral{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Peripheral{}).Where("associated_pc_id = ?", id).
			Update("associated_pc_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.PC{}, id).Error
	})
	if err != nil {
		return err
	}

	for _, p := range deleted {
		s.publish("device.deleted", p.Kind, p.ID)
	}
	s.publish("device.deleted", models.DeviceTypePC, id)
	return nil
}

// ---------- Периферия ----------

// validatePeripheral проверяет привязку номера перед интерактивным сохранением.
// Если номер уже занят другим устройством того же вида, связанным с другим ПК,
// возвращается *ConflictError. Иначе прежний владелец номера удаляется и возвращается.
// Вызывается только внутри транзакции SubmitPeripheral.
func (s *DeviceService) validatePeripheral(p *models.Peripheral) (*models.Peripheral, error) {
	if !p.Kind.IsPeripheral() {
		return nil, ErrInvalidKind
	}

	code, err := s.loadCode(p.InventoryCodeID)
	if err != nil || code == nil {
		return nil, err
	}
	if code.DeviceType != nil && *code.DeviceType != p.Kind {
		return nil, ErrCodeTypeMismatch
	}

	var existing models.Peripheral
	err = s.db.Preload("AssociatedPC.InventoryCode").Preload("AssociatedPC.Responsible").
		Where("kind = ? AND inventory_code_id = ? AND id <> ?", p.Kind, code.ID, p.ID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if existing.AssociatedPCID != nil && !sameID(existing.AssociatedPCID, p.AssociatedPCID) {
		label := "another PC"
		if existing.AssociatedPC != nil {
			label = existing.AssociatedPC.Label()
		}
		return nil, &ConflictError{Kind: p.Kind, Code: code.Code, PCLabel: label}
	}

	if err := s.db.Delete(&models.Peripheral{}, existing.ID).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// SavePeripheral синхронизирует ответственного и узел, привязывает номер к виду и сохраняет запись.
// Проверка validatePeripheral здесь не выполняется (пакетный импорт).
func (s *DeviceService) SavePeripheral(p *models.Peripheral) error {
	if !p.Kind.IsPeripheral() {
		return ErrInvalidKind
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		d := s.withTx(tx)

		var pc *models.PC
		if p.AssociatedPCID != nil {
			var associated models.PC
			if err := tx.First(&associated, *p.AssociatedPCID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			pc = &associated
		}

		responsible, err := d.loadPerson(p.ResponsibleID)
		if err != nil {
			return err
		}
		SyncPeripheral(p, pc, responsible)

		code, err := d.loadCode(p.InventoryCodeID)
		if err != nil {
			return err
		}
		if code != nil {
			if err := NewInventoryCodeService(tx).BindDeviceType(code, p.Kind); err != nil {
				return err
			}
		}

		if strings.TrimSpace(p.Brand) == "" {
			p.Brand = models.DefaultBrand
		}
		return tx.Omit(clause.Associations).Save(p).Error
	})
	if err != nil {
		return err
	}

	s.publish("device.saved", p.Kind, p.ID)
	return nil
}

// SubmitPeripheral интерактивное сохранение: проверка и сохранение в одной транзакции.
// При конфликте ни одна запись не изменяется.
func (s *DeviceService) SubmitPeripheral(p *models.Peripheral) error {
	var replaced *models.Peripheral
	err := s.db.Transaction(func(tx *gorm.DB) error {
		d := s.withTx(tx)
		var err error
		if replaced, err = d.validatePeripheral(p); err != nil {
			return err
		}
		return d.SavePeripheral(p)
	})
	if err != nil {
		return err
	}

	if replaced != nil {
		s.publish("device.deleted", replaced.Kind, replaced.ID)
	}
	s.publish("device.saved", p.Kind, p.ID)
	return nil
}

// GetPeripheral возвращает устройство заданного вида со связями
func (s *DeviceService) GetPeripheral(kind models.DeviceType, id uint) (*models.Peripheral, error) {
	var p models.Peripheral
	err := s.db.Preload("InventoryCode").Preload("Responsible").Preload("OrgNode").
		Preload("AssociatedPC.InventoryCode").
		Where("kind = ?", kind).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// PeripheralFilter параметры списка периферии
type PeripheralFilter struct {
	Scope  *Scope
	PCID   *uint
	Search string
	Limit  int
	Offset int
}

// ListPeripherals возвращает устройства заданного вида
func (s *DeviceService) ListPeripherals(kind models.DeviceType, filter PeripheralFilter) ([]models.Peripheral, error) {
	query := s.db.Model(&models.Peripheral{}).
		Select("peripherals.*").
		Joins("LEFT JOIN persons responsible ON responsible.id = peripherals.responsible_id").
		Joins("LEFT JOIN inventory_codes codes ON codes.id = peripherals.inventory_code_id").
		Preload("InventoryCode").Preload("Responsible").Preload("OrgNode").
		Preload("AssociatedPC.InventoryCode").
		Where("peripherals.kind = ?", kind).
		Order("codes.code").Order("peripherals.id")

	if filter.Scope != nil {
		query = query.Where("peripherals.org_node_id IN ?", filter.Scope.NodeIDs)
	}
	if filter.PCID != nil {
		query = query.Where("peripherals.associated_pc_id = ?", *filter.PCID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(codes.code) LIKE ? OR responsible.name_key LIKE ?", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []models.Peripheral
	err := query.Find(&items).Error
	return items, err
}

// PeripheralsOfPC возвращает периферию ПК, сгруппированную по виду
func (s *DeviceService) PeripheralsOfPC(pcID uint) (map[models.DeviceType][]models.Peripheral, error) {
	var items []models.Peripheral
	err := s.db.Preload("InventoryCode").
		Where("associated_pc_id = ?", pcID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.DeviceType][]models.Peripheral)
	for _, item := range items {
		grouped[item.Kind] = append(grouped[item.Kind], item)
	}
	return grouped, nil
}

// DeletePeripheral удаляет устройство
func (s *DeviceService) DeletePeripheral(kind models.DeviceType, id uint) error {
	if _, err := s.GetPeripheral(kind, id); err != nil {
		return err
	}
	if err := s.db.Delete(&models.Peripheral{}, id).Error; err != nil {
		return err
	}
	s.publish("device.deleted", kind, id)
	return nil
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
