package main

import (
	"time"

	"inventario-backend/importer"
	"inventario-backend/models"
	"inventario-backend/services"
	"inventario-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), models.GormConfig("silent"))
	if err != nil {
		panic("Failed to connect to test database")
	}

	// Одно соединение, иначе каждое новое видит свою пустую базу
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := models.Migrate(db); err != nil {
		panic("Failed to migrate test database")
	}
	return db
}

// createTestStaff создает сотрудника и возвращает его
func createTestStaff(db *gorm.DB) *models.User {
	user, err := services.NewAuthService(db).CreateStaff("Test Staff", "staff@test.com", "password123")
	if err != nil {
		panic("Failed to create test staff")
	}
	return user
}

// setupTestApp создает приложение со всеми маршрутами API
func setupTestApp(db *gorm.DB) *fiber.App {
	structure, err := importer.LoadStructure("")
	if err != nil {
		panic("Failed to load structure")
	}

	app := newApp()
	setupRoutes(app, db, nil, structure, ".")
	return app
}

// generateTestJWT создает тестовый JWT токен для указанного пользователя
func generateTestJWT(userID uint, isStaff bool) string {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"email":    "staff@test.com",
		"is_staff": isStaff,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString(utils.JWTSecret())
	return tokenString
}
