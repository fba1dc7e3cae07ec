package services

import (
	"testing"

	"inventario-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsString(t *testing.T) {
	assert.Equal(t, "-", Stats{}.String())
	assert.Equal(t, "0/3", Stats{Working: 0, Total: 3}.String())
	assert.Equal(t, "2/3", Stats{Working: 2, Total: 3}.String())
	assert.Equal(t, "-", FormatCount(0))
	assert.Equal(t, "12", FormatCount(12))
}

func TestSubtreeStatsFollowsNewDevices(t *testing.T) {
	db := setupTestDB(t)
	a := createNode(t, db, "A", nil)
	a1 := createNode(t, db, "A1", a)
	b := createNode(t, db, "B", nil)

	devices := NewDeviceService(db, nil)
	stats := NewStatsService(db)

	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMonitor, OrgNodeID: &a1.ID, Works: true}))
	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMonitor, OrgNodeID: &b.ID, Works: true}))

	got, err := stats.SubtreeStats(a, models.DeviceTypeMonitor)
	require.NoError(t, err)
	assert.Equal(t, "1/1", got.String())

	// Неисправный монитор в A меняет только статистику A
	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMonitor, OrgNodeID: &a.ID, Works: false}))

	got, err = stats.SubtreeStats(a, models.DeviceTypeMonitor)
	require.NoError(t, err)
	assert.Equal(t, "1/2", got.String())

	got, err = stats.SubtreeStats(b, models.DeviceTypeMonitor)
	require.NoError(t, err)
	assert.Equal(t, "1/1", got.String())

	got, err = stats.SubtreeStats(a, models.DeviceTypeKeyboard)
	require.NoError(t, err)
	assert.Equal(t, "-", got.String())

	_, err = stats.SubtreeStats(a, models.DeviceType("Laptop"))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSummaryAndTotals(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	dept := createNode(t, db, "Dept", area)
	local := createNode(t, db, "Local", dept)
	deeper := createNode(t, db, "Rincón", local)

	_, err := NewPersonService(db).Create("Ana", &dept.ID)
	require.NoError(t, err)

	devices := NewDeviceService(db, nil)
	require.NoError(t, devices.SavePC(&models.PC{OrgNodeID: local.ID, Works: true}))
	// Правнук не входит в статистику области
	require.NoError(t, devices.SavePC(&models.PC{OrgNodeID: deeper.ID, Works: true}))

	stats := NewStatsService(db)
	summary, err := stats.Summary(area)
	require.NoError(t, err)
	assert.Equal(t, "Area", summary.Label)
	assert.Equal(t, "1", summary.Persons)
	assert.Equal(t, "1/1", summary.Devices[models.DeviceTypePC])
	assert.Equal(t, "-", summary.Devices[models.DeviceTypeUPS])
	assert.Len(t, summary.Devices, len(models.DeviceTypes))

	totals, err := stats.Totals()
	require.NoError(t, err)
	assert.Equal(t, Stats{Working: 2, Total: 2}, totals[models.DeviceTypePC])
	assert.Equal(t, Stats{}, totals[models.DeviceTypeScanner])
}
