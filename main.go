package main

import (
	"log"
	"time"

	"inventario-backend/config"
	"inventario-backend/controllers"
	"inventario-backend/importer"
	"inventario-backend/models"
	"inventario-backend/routes"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	// Инициализация базы данных
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	if err := models.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Справочник компонентов и учетная запись администратора
	initDefaultComponents(db)
	if err := services.NewAuthService(db).EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Ошибка при создании администратора: %v", err)
	}

	// Структура организации для импорта
	structure, err := importer.LoadStructure(cfg.StructureFile)
	if err != nil {
		log.Fatal("Failed to load organization structure:", err)
	}

	// Инициализация WebSocket хаба
	hub := services.NewHub()
	go hub.Run()

	app := newApp()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	setupRoutes(app, db, hub, structure, cfg.ImportDir)

	// WebSocket маршрут
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Inventario Backend is running",
			"clients":   hub.ClientCount(),
			"timestamp": time.Now().Unix(),
		})
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// newApp создает Fiber приложение с общим обработчиком ошибок
func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})
}

// setupRoutes создает контроллеры и регистрирует маршруты API
func setupRoutes(app *fiber.App, db *gorm.DB, notifier services.Notifier, structure *importer.Structure, importDir string) {
	// Инициализация контроллеров
	authController := controllers.NewAuthController(db)
	orgNodeController := controllers.NewOrgNodeController(db)
	personController := controllers.NewPersonController(db)
	inventoryCodeController := controllers.NewInventoryCodeController(db)
	componentController := controllers.NewComponentController(db)
	pcController := controllers.NewPCController(db, notifier)
	peripheralController := controllers.NewPeripheralController(db, notifier)
	exportController := controllers.NewExportController(db)
	dashboardController := controllers.NewDashboardController(db)
	importController := controllers.NewImportController(db, structure, notifier, importDir)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupOrgNodeRoutes(app, orgNodeController)
	routes.SetupPersonRoutes(app, personController)
	routes.SetupInventoryCodeRoutes(app, inventoryCodeController)
	routes.SetupComponentRoutes(app, componentController)
	routes.SetupPCRoutes(app, pcController)
	routes.SetupPeripheralRoutes(app, peripheralController)
	routes.SetupExportRoutes(app, exportController)
	routes.SetupDashboardRoutes(app, dashboardController)
	routes.SetupImportRoutes(app, importController)
}

// initDefaultComponents заполняет справочник компонентов базовыми значениями
func initDefaultComponents(db *gorm.DB) {
	created := 0
	err := services.NewComponentService(db).Seed(func(c *models.Component, isNew bool) {
		if isNew {
			created++
			log.Printf("Создан компонент: %s (%s)", c.Name, c.Category)
		}
	})
	if err != nil {
		log.Printf("Ошибка при инициализации компонентов: %v", err)
		return
	}
	if created == 0 {
		log.Println("Базовые компоненты уже существуют")
	} else {
		log.Printf("Базовые компоненты инициализированы (%d новых)", created)
	}
}
