package services

import (
	"testing"

	"inventario-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), models.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// createNode создает узел и падает при ошибке
func createNode(t *testing.T, db *gorm.DB, name string, parent *models.OrgNode) *models.OrgNode {
	t.Helper()

	var parentID *uint
	if parent != nil {
		parentID = &parent.ID
	}
	node, err := NewHierarchyService(db).Create(name, parentID)
	require.NoError(t, err)
	return node
}

func uintPtr(v uint) *uint {
	return &v
}

// recordingNotifier запоминает опубликованные события
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Publish(eventType string, payload interface{}) {
	if e, ok := payload.(DeviceEvent); ok {
		eventType += ":" + string(e.Kind)
	}
	n.events = append(n.events, eventType)
}
