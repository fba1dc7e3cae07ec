package services

import (
	"testing"

	"inventario-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" John  Pérez (nuevo) ", "John Pérez"},
		{"Ana (Nuevo)", "Ana"},
		{"Luis\tGómez", "Luis Gómez"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}

func TestGetOrCreateByName(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	other := createNode(t, db, "Other", nil)
	persons := NewPersonService(db)

	created, isNew, err := persons.GetOrCreateByName(" John  Pérez (nuevo) ", nil)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "John Pérez", created.Name)
	assert.Nil(t, created.OrgNodeID)

	// Поиск без учета регистра
	found, isNew, err := persons.GetOrCreateByName("JOHN PÉREZ", &other.ID)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, found.ID)
	assert.Nil(t, found.OrgNodeID)

	// Узел заполняется только один раз
	filled, err := persons.BackfillOrgNode(found, area.ID)
	require.NoError(t, err)
	assert.True(t, filled)
	filled, err = persons.BackfillOrgNode(found, other.ID)
	require.NoError(t, err)
	assert.False(t, filled)

	reloaded, err := persons.Get(found.ID)
	require.NoError(t, err)
	assert.Equal(t, area.ID, *reloaded.OrgNodeID)

	_, _, err = persons.GetOrCreateByName("  ", nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestPersonDeleteAndCounts(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	persons := NewPersonService(db)
	devices := NewDeviceService(db, nil)

	person, err := persons.Create("Ana", &area.ID)
	require.NoError(t, err)

	pc := &models.PC{OrgNodeID: area.ID, ResponsibleID: &person.ID}
	require.NoError(t, devices.SavePC(pc))
	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMonitor, AssociatedPCID: &pc.ID}))
	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMonitor, ResponsibleID: &person.ID}))

	counts, err := persons.DeviceCounts(person.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.DeviceTypePC])
	assert.Equal(t, int64(2), counts[models.DeviceTypeMonitor])
	assert.Equal(t, int64(0), counts[models.DeviceTypeUPS])

	require.NoError(t, persons.Delete(person.ID))

	saved, err := devices.GetPC(pc.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.ResponsibleID)

	_, err = persons.Create("Luis", uintPtr(999))
	assert.ErrorIs(t, err, ErrNotFound)
}
