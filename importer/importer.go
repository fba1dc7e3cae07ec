package importer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrFatal прерывает задание целиком: файл не найден, не читается или транзакция откатилась
var ErrFatal = errors.New("import aborted")

// Job задание импорта
type Job string

const (
	JobComponents Job = "components"
	JobPCs        Job = "pcs"
	JobMonitors   Job = "monitors"
	JobKeyboards  Job = "keyboards"
	JobMice       Job = "mice"
	JobPrinters   Job = "printers"
	JobScanners   Job = "scanners"
	JobUPS        Job = "ups"
	JobAssignOS   Job = "assign-os"
	JobAssignCPU  Job = "assign-cpu"
	JobAll        Job = "all"
)

// AllJobs порядок выполнения полного импорта
var AllJobs = []Job{
	JobComponents,
	JobPCs, JobMonitors, JobKeyboards, JobMice, JobPrinters, JobScanners, JobUPS,
	JobAssignOS, JobAssignCPU,
}

// DefaultFiles имена файлов по умолчанию в каталоге импорта
var DefaultFiles = map[Job]string{
	JobPCs:       "pcs.xlsx",
	JobMonitors:  "monitores.xlsx",
	JobKeyboards: "teclados.xlsx",
	JobMice:      "maus.xlsx",
	JobPrinters:  "impresoras.xlsx",
	JobScanners:  "scaners.xlsx",
	JobUPS:       "ups.xlsx",
	JobAssignOS:  "sistemas.xlsx",
	JobAssignCPU: "procesador.xlsx",
}

// jobTitles подписи заданий в выводе
var jobTitles = map[Job]string{
	JobComponents: "Componentes",
	JobPCs:        "PCs",
	JobMonitors:   "Monitores",
	JobKeyboards:  "Teclados",
	JobMice:       "Mouse",
	JobPrinters:   "Impresoras",
	JobScanners:   "Escáneres",
	JobUPS:        "UPS",
	JobAssignOS:   "Sistemas Operativos",
	JobAssignCPU:  "Procesadores",
}

// ParseJob проверяет имя задания
func ParseJob(s string) (Job, error) {
	job := Job(s)
	if job == JobAll {
		return job, nil
	}
	if _, ok := jobTitles[job]; ok {
		return job, nil
	}
	return "", fmt.Errorf("unknown import job %q", s)
}

// NeedsFile возвращает true для заданий, читающих таблицу
func (j Job) NeedsFile() bool {
	_, ok := DefaultFiles[j]
	return ok
}

// DeviceKind тип устройства для заданий импорта устройств
func (j Job) DeviceKind() (models.DeviceType, bool) {
	switch j {
	case JobComponents, JobAssignOS, JobAssignCPU, JobAll:
		return "", false
	}
	kind, err := models.ParseDeviceType(string(j))
	if err != nil {
		return "", false
	}
	return kind, true
}

// Report итог выполнения задания
type Report struct {
	RunID      string    `json:"run_id"`
	Job        Job       `json:"job"`
	File       string    `json:"file,omitempty"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Found      int       `json:"found,omitempty"`
	NotFound   int       `json:"not_found,omitempty"`
	Assigned   int       `json:"assigned,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ProgressEvent payload события import.progress
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	Job     Job    `json:"job"`
	Message string `json:"message"`
}

// Importer выполняет задания импорта из таблиц
type Importer struct {
	db        *gorm.DB
	structure *Structure
	out       io.Writer
	notifier  services.Notifier
}

// New создает импортер. out получает построчный вывод, notifier может быть nil.
func New(db *gorm.DB, structure *Structure, out io.Writer, notifier services.Notifier) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{db: db, structure: structure, out: out, notifier: notifier}
}

func (im *Importer) newReport(job Job, path string) *Report {
	return &Report{RunID: uuid.NewString(), Job: job, File: path, StartedAt: time.Now()}
}

// logf пишет строку в вывод и дублирует ее подписчикам WebSocket
func (im *Importer) logf(rep *Report, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(im.out, message)
	if im.notifier != nil {
		im.notifier.Publish("import.progress", ProgressEvent{RunID: rep.RunID, Job: rep.Job, Message: message})
	}
}

// Run выполняет одно задание. Для заданий с таблицей пустой path означает файл по умолчанию
// в текущем каталоге.
func (im *Importer) Run(job Job, path string) (*Report, error) {
	if path == "" && job.NeedsFile() {
		path = DefaultFiles[job]
	}

	switch job {
	case JobComponents:
		return im.ImportComponents()
	case JobAssignOS:
		return im.AssignComponents(models.ComponentOS, path)
	case JobAssignCPU:
		return im.AssignComponents(models.ComponentCPU, path)
	case JobAll:
		return nil, errors.New("use RunAll for the composite import")
	}

	kind, ok := job.DeviceKind()
	if !ok {
		return nil, fmt.Errorf("unknown import job %q", job)
	}
	return im.ImportDevices(kind, path)
}

// RunAll выполняет все задания по порядку, читая таблицы из dir.
// Ошибка одного задания выводится и не останавливает следующие.
func (im *Importer) RunAll(dir string) []*Report {
	summary := &Report{RunID: uuid.NewString(), Job: JobAll, StartedAt: time.Now()}
	im.logf(summary, "🚀 Iniciando importación masiva...")

	var reports []*Report
	for _, job := range AllJobs {
		path := ""
		if job.NeedsFile() {
			path = filepath.Join(dir, DefaultFiles[job])
		}

		im.logf(summary, "📥 Importando %s...", jobTitles[job])
		rep, err := im.Run(job, path)
		if rep != nil {
			reports = append(reports, rep)
		}
		if err != nil {
			im.logf(summary, "❌ Error al importar %s: %v", jobTitles[job], err)
			log.Printf("import %s failed: %v", job, err)
			continue
		}
		im.logf(summary, "✅ %s importados correctamente", jobTitles[job])
	}

	im.logf(summary, "🎉 Proceso de importación masiva completado!")
	return reports
}

// ImportComponents заполняет справочник компонентов значениями по умолчанию
func (im *Importer) ImportComponents() (*Report, error) {
	rep := im.newReport(JobComponents, "")
	defer func() { rep.FinishedAt = time.Now() }()

	err := services.NewComponentService(im.db).Seed(func(c *models.Component, created bool) {
		if created {
			rep.Created++
			im.logf(rep, "  + Creado %s: %s", c.Category, c.Name)
		} else {
			rep.Skipped++
			im.logf(rep, "  ✓ Existente %s: %s", c.Category, c.Name)
		}
	})
	if err != nil {
		return rep, fmt.Errorf("%w: %v", ErrFatal, err)
	}

	im.logf(rep, "Importación completada con éxito")
	return rep, nil
}

// layout номера колонок (с нуля) таблицы устройств
type layout struct {
	location      int
	code          int
	responsible   int
	works         int
	international int
}

// Для мыши колонки 2 (útil) и 3 (medio básico) не используются
var (
	standardLayout = layout{location: 0, code: 1, responsible: 2, works: 3, international: 4}
	mouseLayout    = layout{location: 0, responsible: 1, code: 4, works: 5, international: 6}
)

func layoutFor(kind models.DeviceType) layout {
	if kind == models.DeviceTypeMouse {
		return mouseLayout
	}
	return standardLayout
}

// rowOutcome результат обработки строки
type rowOutcome int

const (
	rowCreated rowOutcome = iota
	rowSkipped
)

// ImportDevices импортирует устройства вида kind из таблицы.
// Строки обрабатываются независимо: ошибка строки учитывается и не откатывает уже созданные записи.
func (im *Importer) ImportDevices(kind models.DeviceType, path string) (*Report, error) {
	job := Job(kind.Plural())
	rep := im.newReport(job, path)
	defer func() { rep.FinishedAt = time.Now() }()

	im.logf(rep, "Importando %s desde Excel...", jobTitles[job])

	locations, err := ensureLocations(services.NewHierarchyService(im.db), im.structure, func(format string, args ...interface{}) {
		im.logf(rep, format, args...)
	})
	if err != nil {
		return rep, fmt.Errorf("%w: %v", ErrFatal, err)
	}

	rows, err := readRows(path)
	if err != nil {
		im.logf(rep, "Error al abrir el archivo Excel: %v", err)
		return rep, err
	}

	cols := layoutFor(kind)
	for i, row := range rows {
		if i == 0 {
			continue
		}

		outcome, err := im.importDeviceRow(rep, kind, cols, locations, row)
		if err != nil {
			rep.Errors++
			im.logf(rep, "Error al procesar fila %d (%s): %v", i+1, cell(row, cols.code), err)
			continue
		}
		switch outcome {
		case rowCreated:
			rep.Created++
		case rowSkipped:
			rep.Skipped++
		}
	}

	im.logf(rep, "✓ Creados %d %s", rep.Created, jobTitles[job])
	if rep.Errors > 0 {
		im.logf(rep, "⚠ Hubo %d errores durante la importación", rep.Errors)
	}
	im.logf(rep, "Importación completada")
	return rep, nil
}

func (im *Importer) importDeviceRow(rep *Report, kind models.DeviceType, cols layout, locations Locations, row []string) (rowOutcome, error) {
	ubicacion := cell(row, cols.location)
	if ubicacion == "" {
		return rowSkipped, nil
	}

	node, ok := locations.Lookup(im.structure, ubicacion)
	if !ok {
		im.logf(rep, "⚠ Área no encontrada: %s", ubicacion)
		return rowSkipped, nil
	}

	var responsibleID *uint
	if name := services.NormalizeName(cell(row, cols.responsible)); name != "" {
		persons := services.NewPersonService(im.db)
		person, created, err := persons.GetOrCreateByName(name, &node.ID)
		if err != nil {
			return 0, fmt.Errorf("responsible %s: %w", name, err)
		}
		if created {
			im.logf(rep, "  + Creado responsable: %s", name)
		} else {
			updated, err := persons.BackfillOrgNode(person, node.ID)
			if err != nil {
				return 0, fmt.Errorf("responsible %s: %w", name, err)
			}
			if updated {
				im.logf(rep, "  ✓ Actualizada área del responsable: %s -> %s", name, node.Name)
			}
			im.logf(rep, "  ✓ Responsable existente: %s", name)
		}
		responsibleID = &person.ID
	}

	var codeID *uint
	code := cell(row, cols.code)
	if code != "" {
		ic, created, err := services.NewInventoryCodeService(im.db).GetOrCreate(code, models.TypeOf(kind))
		if err != nil {
			return 0, fmt.Errorf("inventory code %s: %w", code, err)
		}
		if created {
			im.logf(rep, "  + Creado número de inventario: %s", code)
		} else {
			im.logf(rep, "  ✓ Número de inventario existente: %s", code)
		}
		codeID = &ic.ID
	}

	works := parseFlag(cell(row, cols.works))
	international := parseFlag(cell(row, cols.international))
	devices := services.NewDeviceService(im.db, nil)

	if kind == models.DeviceTypePC {
		pc := models.PC{
			InventoryCodeID:        codeID,
			ResponsibleID:          responsibleID,
			OrgNodeID:              node.ID,
			Works:                  works,
			IsInternationalProject: international,
		}
		if err := devices.SavePC(&pc); err != nil {
			return 0, err
		}
	} else {
		orgNodeID := node.ID
		p := models.Peripheral{
			Kind:                   kind,
			InventoryCodeID:        codeID,
			ResponsibleID:          responsibleID,
			OrgNodeID:              &orgNodeID,
			Works:                  works,
			IsInternationalProject: international,
			Brand:                  models.DefaultBrand,
		}
		if err := devices.SavePeripheral(&p); err != nil {
			return 0, err
		}
	}

	if code != "" {
		im.logf(rep, "  + Creado %s en %s con inventario %s", kind, ubicacion, code)
	} else {
		im.logf(rep, "  + Creado %s en %s sin número de inventario", kind, ubicacion)
	}
	return rowCreated, nil
}
