package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит настройки приложения
type Config struct {
	Port        string
	CORSOrigins string

	// База данных
	DatabaseURL string
	DBDriver    string
	SQLitePath  string
	DBLogLevel  string

	// Учетная запись администратора, создаваемая при первом запуске
	AdminEmail    string
	AdminPassword string

	// Импорт из таблиц
	StructureFile string
	ImportDir     string
}

// Load читает конфигурацию из переменных окружения (и файла .env, если он есть)
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		SQLitePath:    getEnv("SQLITE_PATH", "inventario.db"),
		DBLogLevel:    strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@inventario.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		StructureFile: os.Getenv("STRUCTURE_FILE"),
		ImportDir:     getEnv("IMPORT_DIR", "."),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = driverFromURL(cfg.DatabaseURL)
	}

	return cfg
}

// driverFromURL определяет драйвер по строке подключения
func driverFromURL(databaseURL string) string {
	switch {
	case databaseURL == "":
		return "sqlite"
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(databaseURL, "mysql://"), strings.Contains(databaseURL, "@tcp("):
		return "mysql"
	default:
		return "postgres"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
