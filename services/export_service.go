package services

import (
	"inventario-backend/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Сущности, доступные для экспорта помимо видов устройств
const (
	ExportOrgNodes       = "org-nodes"
	ExportPersons        = "persons"
	ExportInventoryCodes = "inventory-codes"
	ExportComponents     = "components"
)

// XLSXContentType MIME тип выгрузки
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheet табличное представление сущности перед записью в файл
type sheet struct {
	title   string
	headers []string
	rows    [][]interface{}
}

// ExportService выгружает списки сущностей в xlsx
type ExportService struct {
	db *gorm.DB
}

// NewExportService создает новый сервис экспорта
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// ExportEntities возвращает имена всех сущностей, доступных для экспорта
func ExportEntities() []string {
	entities := []string{ExportOrgNodes, ExportPersons}
	for _, kind := range models.DeviceTypes {
		entities = append(entities, kind.Plural())
	}
	return append(entities, ExportInventoryCodes, ExportComponents)
}

// Export строит xlsx файл для сущности с учетом фильтра по иерархии
func (s *ExportService) Export(entity string, scope *Scope) ([]byte, string, error) {
	var (
		data *sheet
		err  error
	)

	switch entity {
	case ExportOrgNodes:
		data, err = s.orgNodesSheet(scope)
	case ExportPersons:
		data, err = s.personsSheet(scope)
	case ExportInventoryCodes:
		data, err = s.inventoryCodesSheet()
	case ExportComponents:
		data, err = s.componentsSheet()
	default:
		kind, parseErr := models.ParseDeviceType(entity)
		if parseErr != nil {
			return nil, "", ErrNotFound
		}
		if kind == models.DeviceTypePC {
			data, err = s.pcsSheet(scope)
		} else {
			data, err = s.peripheralsSheet(kind, scope)
		}
	}
	if err != nil {
		return nil, "", err
	}

	content, err := render(data)
	if err != nil {
		return nil, "", err
	}
	return content, entity + ".xlsx", nil
}

func render(data *sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := data.title
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(data.headers))
	for i, h := range data.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range data.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func siNo(v bool) string {
	if v {
		return "SI"
	}
	return "NO"
}

func (s *ExportService) orgNodesSheet(scope *Scope) (*sheet, error) {
	nodes, err := NewHierarchyService(s.db).List(scope)
	if err != nil {
		return nil, err
	}

	headers := []string{"Nombre Área", "Área Principal", "Responsables"}
	for _, kind := range models.DeviceTypes {
		headers = append(headers, kind.Label()+" (OK/Total)")
	}

	stats := NewStatsService(s.db)
	data := &sheet{title: "Áreas", headers: headers}
	for i := range nodes {
		node := &nodes[i]
		summary, err := stats.Summary(node)
		if err != nil {
			return nil, err
		}

		parent := ""
		if node.Parent != nil {
			parent = node.Parent.Name
		}
		row := []interface{}{node.Name, parent, summary.Persons}
		for _, kind := range models.DeviceTypes {
			row = append(row, summary.Devices[kind])
		}
		data.rows = append(data.rows, row)
	}
	return data, nil
}

func (s *ExportService) personsSheet(scope *Scope) (*sheet, error) {
	persons, err := NewPersonService(s.db).List(scope, "", 0, 0)
	if err != nil {
		return nil, err
	}

	data := &sheet{title: "Responsables", headers: []string{"Nombre Responsable", "Área"}}
	for _, p := range persons {
		area := ""
		if p.OrgNode != nil {
			area = p.OrgNode.Name
		}
		data.rows = append(data.rows, []interface{}{p.Name, area})
	}
	return data, nil
}

func (s *ExportService) pcsSheet(scope *Scope) (*sheet, error) {
	pcs, err := NewDeviceService(s.db, nil).ListPCs(PCFilter{Scope: scope})
	if err != nil {
		return nil, err
	}

	data := &sheet{
		title: "PCs",
		headers: []string{
			"No. Inv.", "Responsable", "Área", "Estado", "Proyecto Int.",
			"Sistema Op.", "CPU", "RAM", "HDD",
		},
	}
	for _, pc := range pcs {
		data.rows = append(data.rows, []interface{}{
			codeOf(pc.InventoryCode),
			personName(pc.Responsible),
			nodeName(pc.OrgNode),
			siNo(pc.Works),
			siNo(pc.IsInternationalProject),
			componentName(pc.OperatingSystem),
			componentName(pc.Processor),
			componentName(pc.RAM),
			componentName(pc.Disk),
		})
	}
	return data, nil
}

func (s *ExportService) peripheralsSheet(kind models.DeviceType, scope *Scope) (*sheet, error) {
	items, err := NewDeviceService(s.db, nil).ListPeripherals(kind, PeripheralFilter{Scope: scope})
	if err != nil {
		return nil, err
	}

	data := &sheet{
		title: kind.Label(),
		headers: []string{
			"No. Inv.", "Responsable", "Área", "PC Asociada", "Estado", "Proyecto Int.", "Marca",
		},
	}
	for _, p := range items {
		pc := ""
		if p.AssociatedPC != nil {
			pc = codeOf(p.AssociatedPC.InventoryCode)
		}
		data.rows = append(data.rows, []interface{}{
			codeOf(p.InventoryCode),
			personName(p.Responsible),
			nodeName(p.OrgNode),
			pc,
			siNo(p.Works),
			siNo(p.IsInternationalProject),
			p.Brand,
		})
	}
	return data, nil
}

func (s *ExportService) inventoryCodesSheet() (*sheet, error) {
	codes, err := NewInventoryCodeService(s.db).List(nil, "", 0, 0)
	if err != nil {
		return nil, err
	}

	data := &sheet{title: "Números de Inventario", headers: []string{"Código", "Tipo de Dispositivo"}}
	for _, ic := range codes {
		deviceType := ""
		if ic.DeviceType != nil {
			deviceType = string(*ic.DeviceType)
		}
		data.rows = append(data.rows, []interface{}{ic.Code, deviceType})
	}
	return data, nil
}

func (s *ExportService) componentsSheet() (*sheet, error) {
	components, err := NewComponentService(s.db).List(nil)
	if err != nil {
		return nil, err
	}

	data := &sheet{title: "Componentes", headers: []string{"Categoría", "Nombre"}}
	for _, c := range components {
		data.rows = append(data.rows, []interface{}{string(c.Category), c.Name})
	}
	return data, nil
}

func codeOf(ic *models.InventoryCode) string {
	if ic == nil {
		return ""
	}
	return ic.Code
}

func personName(p *models.Person) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func nodeName(n *models.OrgNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func componentName(c *models.Component) string {
	if c == nil {
		return ""
	}
	return c.Name
}
