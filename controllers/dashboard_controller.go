package controllers

import (
	"time"

	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardController контроллер для главной страницы
type DashboardController struct {
	stats     *services.StatsService
	hierarchy *services.HierarchyService
}

// NewDashboardController создает новый экземпляр DashboardController
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		stats:     services.NewStatsService(db),
		hierarchy: services.NewHierarchyService(db),
	}
}

// GetDashboardData возвращает итоги по видам устройств и сводку по каждой области верхнего уровня
func (dc *DashboardController) GetDashboardData(c *fiber.Ctx) error {
	totals, err := dc.stats.Totals()
	if err != nil {
		return respondError(c, err, "Failed to count devices")
	}

	formatted := make(map[models.DeviceType]fiber.Map, len(totals))
	for kind, stats := range totals {
		formatted[kind] = fiber.Map{
			"working": stats.Working,
			"total":   stats.Total,
			"text":    stats.String(),
		}
	}

	areas, err := dc.hierarchy.NodesAtLevel(models.OrgLevelTop)
	if err != nil {
		return respondError(c, err, "Failed to get areas")
	}

	summaries := make([]*services.NodeSummary, 0, len(areas))
	for i := range areas {
		summary, err := dc.stats.Summary(&areas[i])
		if err != nil {
			return respondError(c, err, "Failed to build summary")
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"totals":       formatted,
		"areas":        summaries,
		"generated_at": time.Now(),
	})
}
