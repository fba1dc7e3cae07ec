package importer

import (
	"errors"
	"fmt"
	"time"

	"inventario-backend/models"
	"inventario-backend/services"

	"gorm.io/gorm"
)

// CodeColumn заголовок колонки с инвентарным номером в таблицах назначения
const CodeColumn = "# Inventario"

// option колонка-флаг таблицы и имя компонента, который она назначает
type option struct {
	column string
	name   string
}

// Колонки проверяются по порядку, побеждает первая отмеченная
var assignOptions = map[models.ComponentCategory][]option{
	models.ComponentOS: {
		{"W7", "Windows 7"},
		{"W8", "Windows 8"},
		{"W8.1", "Windows 8.1"},
		{"W10", "Windows 10"},
		{"W11", "Windows 11"},
	},
	models.ComponentCPU: {
		{"celeron", "Celeron"},
		{"Pentium III", "Pentium III"},
		{"Pentium IV", "Pentium IV"},
		{"Dual Core", "Dual Core"},
		{"Duo", "Core 2 Duo"},
		{"Core I3", "Core i3"},
		{"Core I5", "Core i5"},
		{"Core I7", "Core i7"},
		{"Xeon", "Xeon"},
		{"AMD", "AMD"},
		{"ATOM", "Atom"},
		{"Pentium Gold", "Pentium Gold"},
		{"Pentium G20/30", "Pentium G20/30"},
	},
}

var assignLabels = map[models.ComponentCategory]string{
	models.ComponentOS:  "sistema operativo",
	models.ComponentCPU: "procesador",
}

// AssignComponents назначает ПК компонент категории по отмеченной колонке таблицы.
// Проход выполняется в одной транзакции; ошибка строки откатывается до точки сохранения строки.
func (im *Importer) AssignComponents(category models.ComponentCategory, path string) (*Report, error) {
	options, ok := assignOptions[category]
	if !ok {
		return nil, fmt.Errorf("no assignment pass for component category %q", category)
	}

	job := JobAssignOS
	if category == models.ComponentCPU {
		job = JobAssignCPU
	}
	rep := im.newReport(job, path)
	defer func() { rep.FinishedAt = time.Now() }()

	rows, err := readRows(path)
	if err != nil {
		im.logf(rep, "Error leyendo el archivo Excel: %v", err)
		return rep, err
	}
	if len(rows) == 0 {
		return rep, fmt.Errorf("%w: empty sheet", ErrFatal)
	}

	header := map[string]int{}
	for i := range rows[0] {
		header[cell(rows[0], i)] = i
	}
	codeIdx, ok := header[CodeColumn]
	if !ok {
		return rep, fmt.Errorf("%w: column %q not found", ErrFatal, CodeColumn)
	}

	label := assignLabels[category]
	var stats Report
	err = im.db.Transaction(func(tx *gorm.DB) error {
		stats = Report{}
		for _, row := range rows[1:] {
			code := cell(row, codeIdx)

			if err := tx.SavePoint("assign_row").Error; err != nil {
				return err
			}
			if err := im.assignRow(tx, rep, &stats, category, options, header, code, row); err != nil {
				if rbErr := tx.RollbackTo("assign_row").Error; rbErr != nil {
					return rbErr
				}
				im.logf(rep, "❌ Error procesando PC %s: %v", code, err)
				stats.Errors++
			}
		}
		return nil
	})
	if err != nil {
		im.logf(rep, "❌ Importación cancelada: %v", err)
		return rep, fmt.Errorf("%w: %v", ErrFatal, err)
	}

	rep.Found, rep.NotFound, rep.Assigned, rep.Errors = stats.Found, stats.NotFound, stats.Assigned, stats.Errors

	im.logf(rep, "=== Estadísticas ===")
	im.logf(rep, "PCs encontradas: %d", rep.Found)
	im.logf(rep, "PCs no encontradas: %d", rep.NotFound)
	im.logf(rep, "Asignaciones de %s: %d", label, rep.Assigned)
	return rep, nil
}

func (im *Importer) assignRow(tx *gorm.DB, rep, stats *Report, category models.ComponentCategory, options []option, header map[string]int, code string, row []string) error {
	if code == "" {
		im.logf(rep, "❌ Fila sin número de inventario")
		stats.NotFound++
		return nil
	}

	var pc models.PC
	err := tx.Model(&models.PC{}).
		Select("pcs.*").
		Joins("JOIN inventory_codes codes ON codes.id = pcs.inventory_code_id").
		Where("codes.code = ?", code).
		Order("pcs.id").
		First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		im.logf(rep, "❌ No se encontró PC con número de inventario: %s", code)
		stats.NotFound++
		return nil
	}
	if err != nil {
		return err
	}

	for _, opt := range options {
		idx, ok := header[opt.column]
		if !ok || !parseFlag(cell(row, idx)) {
			continue
		}

		component, _, err := services.NewComponentService(tx).GetOrCreate(category, opt.name)
		if err != nil {
			return err
		}
		pc.SetComponentID(category, &component.ID)
		if err := services.NewDeviceService(tx, nil).SavePC(&pc); err != nil {
			return err
		}

		im.logf(rep, "✅ PC %s: Asignado %s", code, opt.name)
		stats.Found++
		stats.Assigned++
		return nil
	}

	im.logf(rep, "⚠️ PC %s: No tiene %s marcado", code, assignLabels[category])
	stats.Found++
	return nil
}
