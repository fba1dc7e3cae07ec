package controllers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"inventario-backend/importer"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// maxImportSize ограничение размера загружаемой таблицы
const maxImportSize = 20 << 20

// ImportController запускает задания импорта из загруженных таблиц
type ImportController struct {
	db        *gorm.DB
	structure *importer.Structure
	notifier  services.Notifier
	importDir string
}

// NewImportController создает новый контроллер импорта
func NewImportController(db *gorm.DB, structure *importer.Structure, notifier services.Notifier, importDir string) *ImportController {
	return &ImportController{db: db, structure: structure, notifier: notifier, importDir: importDir}
}

// RunImport выполняет задание. Для заданий с таблицей файл передается в поле формы "file";
// задание all читает файлы по умолчанию из каталога импорта.
func (c *ImportController) RunImport(ctx *fiber.Ctx) error {
	job, err := importer.ParseJob(ctx.Params("job"))
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var out bytes.Buffer
	im := importer.New(c.db, c.structure, &out, c.notifier)

	if job == importer.JobAll {
		reports := im.RunAll(c.importDir)
		return ctx.JSON(fiber.Map{
			"success": true,
			"reports": reports,
			"log":     splitLog(&out),
		})
	}

	path := ""
	if job.NeedsFile() {
		file, err := ctx.FormFile("file")
		if err != nil {
			return ctx.Status(400).JSON(fiber.Map{
				"error": "No file provided",
			})
		}
		if file.Size > maxImportSize {
			return ctx.Status(400).JSON(fiber.Map{
				"error": "File too large",
			})
		}
		if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
			return ctx.Status(400).JSON(fiber.Map{
				"error": "Only .xlsx files are supported",
			})
		}

		dir, err := os.MkdirTemp("", "inventario-import-")
		if err != nil {
			return ctx.Status(500).JSON(fiber.Map{
				"error": "Failed to create upload directory",
			})
		}
		defer os.RemoveAll(dir)

		path = filepath.Join(dir, importer.DefaultFiles[job])
		if err := ctx.SaveFile(file, path); err != nil {
			return ctx.Status(500).JSON(fiber.Map{
				"error": "Failed to save file",
			})
		}
	}

	report, err := im.Run(job, path)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, importer.ErrFatal) {
			status = fiber.StatusUnprocessableEntity
		}
		return ctx.Status(status).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
			"log":    splitLog(&out),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"report":  report,
		"log":     splitLog(&out),
	})
}

func splitLog(out *bytes.Buffer) []string {
	text := strings.TrimRight(out.String(), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
