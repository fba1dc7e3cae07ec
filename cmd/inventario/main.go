package main

import (
	"fmt"
	"os"
	"path/filepath"

	"inventario-backend/config"
	"inventario-backend/importer"
	"inventario-backend/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inventario",
		Short:         "Утилиты обслуживания базы инвентаря",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newImportCmd())
	return root
}

// openDB подключается к базе и применяет миграции
func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := models.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Создать или обновить таблицы",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDB(config.Load()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Миграция выполнена")
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var (
		dir           string
		structureFile string
	)

	cmd := &cobra.Command{
		Use:   "import <job> [file]",
		Short: "Импорт из таблиц xlsx",
		Long: "Задания: components, pcs, monitors, keyboards, mice, printers, scanners, ups, assign-os, assign-cpu, all.\n" +
			"Без file читается файл по умолчанию из каталога импорта.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := importer.ParseJob(args[0])
			if err != nil {
				return err
			}

			cfg := config.Load()
			if dir == "" {
				dir = cfg.ImportDir
			}
			if structureFile == "" {
				structureFile = cfg.StructureFile
			}

			structure, err := importer.LoadStructure(structureFile)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}

			im := importer.New(db, structure, cmd.OutOrStdout(), nil)
			if job == importer.JobAll {
				im.RunAll(dir)
				return nil
			}

			path := ""
			if len(args) == 2 {
				path = args[1]
			} else if job.NeedsFile() {
				path = filepath.Join(dir, importer.DefaultFiles[job])
			}

			report, err := im.Run(job, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d skipped=%d errors=%d\n", report.Created, report.Skipped, report.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "каталог с таблицами (по умолчанию IMPORT_DIR)")
	cmd.Flags().StringVar(&structureFile, "structure", "", "файл структуры организации (по умолчанию встроенный)")
	return cmd
}
