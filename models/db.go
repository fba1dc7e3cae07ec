package models

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"inventario-backend/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB инициализирует подключение к базе данных
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "postgres":
		// PostgreSQL для продакшена
		dialector = postgres.Open(cfg.DatabaseURL)
	case "mysql":
		dialector = mysql.Open(strings.TrimPrefix(cfg.DatabaseURL, "mysql://"))
	case "sqlite", "":
		// SQLite для разработки
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	return gorm.Open(dialector, GormConfig(cfg.DBLogLevel))
}

// GormConfig возвращает общую конфигурацию gorm.
// Ссылочная целостность проверяется сервисами явно, поэтому внешние ключи в схеме не создаются.
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  parseLogLevel(logLevel),
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// Migrate создает или обновляет таблицы всех моделей
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&OrgNode{},
		&Person{},
		&InventoryCode{},
		&Component{},
		&PC{},
		&Peripheral{},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
