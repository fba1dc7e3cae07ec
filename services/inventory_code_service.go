package services

import (
	"errors"
	"strings"

	"inventario-backend/models"

	"gorm.io/gorm"
)

// AvailableCodesLimit максимальное число результатов для поиска свободных номеров
const AvailableCodesLimit = 10

// InventoryCodeService реестр инвентарных номеров
type InventoryCodeService struct {
	db *gorm.DB
}

// NewInventoryCodeService создает новый сервис инвентарных номеров
func NewInventoryCodeService(db *gorm.DB) *InventoryCodeService {
	return &InventoryCodeService{db: db}
}

// ownerLookup находит устройство, которому принадлежит номер
type ownerLookup func(db *gorm.DB, codeID uint) (models.Device, error)

// ownerLookups закрытое сопоставление типа устройства и таблицы владельца
var ownerLookups = map[models.DeviceType]ownerLookup{
	models.DeviceTypePC:       findPCOwner,
	models.DeviceTypeMonitor:  peripheralOwner(models.DeviceTypeMonitor),
	models.DeviceTypeKeyboard: peripheralOwner(models.DeviceTypeKeyboard),
	models.DeviceTypeMouse:    peripheralOwner(models.DeviceTypeMouse),
	models.DeviceTypePrinter:  peripheralOwner(models.DeviceTypePrinter),
	models.DeviceTypeScanner:  peripheralOwner(models.DeviceTypeScanner),
	models.DeviceTypeUPS:      peripheralOwner(models.DeviceTypeUPS),
}

func findPCOwner(db *gorm.DB, codeID uint) (models.Device, error) {
	var pc models.PC
	if err := db.Preload("Responsible").Where("inventory_code_id = ?", codeID).First(&pc).Error; err != nil {
		return nil, err
	}
	return &pc, nil
}

func peripheralOwner(kind models.DeviceType) ownerLookup {
	return func(db *gorm.DB, codeID uint) (models.Device, error) {
		var p models.Peripheral
		err := db.Preload("Responsible").
			Where("kind = ? AND inventory_code_id = ?", kind, codeID).
			First(&p).Error
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
}

// GetOrCreate ищет номер по паре (code, deviceType) и создает его при отсутствии
func (s *InventoryCodeService) GetOrCreate(code string, deviceType *models.DeviceType) (*models.InventoryCode, bool, error) {
	code = strings.TrimSpace(code)

	existing, err := s.findByPair(code, deviceType)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := models.InventoryCode{Code: code, DeviceType: deviceType}
	if err := s.db.Create(&created).Error; err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

func (s *InventoryCodeService) findByPair(code string, deviceType *models.DeviceType) (*models.InventoryCode, error) {
	var ic models.InventoryCode
	query := s.db.Where("code = ?", code)
	if deviceType == nil {
		query = query.Where("device_type IS NULL")
	} else {
		query = query.Where("device_type = ?", *deviceType)
	}
	if err := query.Order("id").First(&ic).Error; err != nil {
		return nil, err
	}
	return &ic, nil
}

// BindDeviceType записывает тип устройства в номер. Последняя запись побеждает,
// но пара (код, тип) остается уникальной: если ее уже держит другая строка, возвращается ErrDuplicateCode.
func (s *InventoryCodeService) BindDeviceType(ic *models.InventoryCode, deviceType models.DeviceType) error {
	if !deviceType.Valid() {
		return ErrInvalidKind
	}
	if ic.DeviceType != nil && *ic.DeviceType == deviceType {
		return nil
	}

	var taken int64
	err := s.db.Model(&models.InventoryCode{}).
		Where("code = ? AND device_type = ? AND id <> ?", ic.Code, deviceType, ic.ID).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return ErrDuplicateCode
	}

	ic.DeviceType = models.TypeOf(deviceType)
	return s.db.Model(ic).Update("device_type", deviceType).Error
}

// ResolveOwningDevice возвращает устройство, которому принадлежит номер, или nil.
// Ошибки поиска не возвращаются.
func (s *InventoryCodeService) ResolveOwningDevice(ic *models.InventoryCode) models.Device {
	if ic == nil || ic.DeviceType == nil {
		return nil
	}
	lookup, ok := ownerLookups[*ic.DeviceType]
	if !ok {
		return nil
	}
	device, err := lookup(s.db, ic.ID)
	if err != nil {
		return nil
	}
	return device
}

// Label формирует подпись "код - тип - (ответственный)", пропуская неизвестные части
func (s *InventoryCodeService) Label(ic *models.InventoryCode) string {
	parts := []string{ic.Code}
	if ic.DeviceType != nil {
		parts = append(parts, string(*ic.DeviceType))
	}

	if device := s.ResolveOwningDevice(ic); device != nil {
		if personID := device.ResponsiblePersonID(); personID != nil {
			var person models.Person
			if err := s.db.First(&person, *personID).Error; err == nil {
				parts = append(parts, "("+person.Name+")")
			}
		}
	}

	return strings.Join(parts, " - ")
}

// Available возвращает номера заданного типа, еще не привязанные к устройству этого типа
func (s *InventoryCodeService) Available(deviceType models.DeviceType, term string) ([]models.InventoryCode, error) {
	if !deviceType.Valid() {
		return nil, ErrInvalidKind
	}

	var bound *gorm.DB
	if deviceType == models.DeviceTypePC {
		bound = s.db.Model(&models.PC{}).
			Select("inventory_code_id").
			Where("inventory_code_id IS NOT NULL")
	} else {
		bound = s.db.Model(&models.Peripheral{}).
			Select("inventory_code_id").
			Where("kind = ? AND inventory_code_id IS NOT NULL", deviceType)
	}

	query := s.db.Where("device_type = ?", deviceType).Where("id NOT IN (?)", bound)
	if term = strings.TrimSpace(term); term != "" {
		query = query.Where("LOWER(code) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var codes []models.InventoryCode
	err := query.Order("code").Limit(AvailableCodesLimit).Find(&codes).Error
	return codes, err
}

// Create создает номер, проверяя уникальность пары (code, deviceType)
func (s *InventoryCodeService) Create(code string, deviceType *models.DeviceType) (*models.InventoryCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyName
	}
	if deviceType != nil && !deviceType.Valid() {
		return nil, ErrInvalidKind
	}

	if _, err := s.findByPair(code, deviceType); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ic := models.InventoryCode{Code: code, DeviceType: deviceType}
	if err := s.db.Create(&ic).Error; err != nil {
		return nil, err
	}
	return &ic, nil
}

// Get возвращает номер по ID
func (s *InventoryCodeService) Get(id uint) (*models.InventoryCode, error) {
	var ic models.InventoryCode
	if err := s.db.First(&ic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ic, nil
}

// List возвращает номера с необязательным фильтром по типу и подстроке
func (s *InventoryCodeService) List(deviceType *models.DeviceType, term string, limit, offset int) ([]models.InventoryCode, error) {
	query := s.db.Order("code")
	if deviceType != nil {
		query = query.Where("device_type = ?", *deviceType)
	}
	if term = strings.TrimSpace(term); term != "" {
		query = query.Where("LOWER(code) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var codes []models.InventoryCode
	err := query.Find(&codes).Error
	return codes, err
}

// Rename меняет строку номера
func (s *InventoryCodeService) Rename(id uint, code string) (*models.InventoryCode, error) {
	ic, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyName
	}
	if other, err := s.findByPair(code, ic.DeviceType); err == nil && other.ID != ic.ID {
		return nil, ErrDuplicateCode
	}

	ic.Code = code
	if err := s.db.Save(ic).Error; err != nil {
		return nil, err
	}
	return ic, nil
}

// Delete удаляет номер, если он не привязан ни к одному устройству
func (s *InventoryCodeService) Delete(id uint) error {
	ic, err := s.Get(id)
	if err != nil {
		return err
	}

	inUse, err := s.isReferenced(ic.ID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCodeInUse
	}

	return s.db.Delete(ic).Error
}

func (s *InventoryCodeService) isReferenced(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.PC{}).Where("inventory_code_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.Model(&models.Peripheral{}).Where("inventory_code_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
