package services

import (
	"bytes"
	"testing"

	"inventario-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportPCs(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	other := createNode(t, db, "Other", nil)

	person, err := NewPersonService(db).Create("Ana", &area.ID)
	require.NoError(t, err)
	code, _, err := NewInventoryCodeService(db).GetOrCreate("PC-1", nil)
	require.NoError(t, err)
	w10, _, err := NewComponentService(db).GetOrCreate(models.ComponentOS, "W10")
	require.NoError(t, err)

	devices := NewDeviceService(db, nil)
	require.NoError(t, devices.SavePC(&models.PC{
		OrgNodeID: area.ID, ResponsibleID: &person.ID, InventoryCodeID: &code.ID,
		OperatingSystemID: &w10.ID, Works: true,
	}))
	require.NoError(t, devices.SavePC(&models.PC{OrgNodeID: other.ID}))

	scope, err := NewHierarchyService(db).ResolveScope(ScopeFilter{AreaID: &area.ID})
	require.NoError(t, err)

	content, filename, err := NewExportService(db).Export("pcs", scope)
	require.NoError(t, err)
	assert.Equal(t, "pcs.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("PCs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "No. Inv.", rows[0][0])
	assert.Equal(t, []string{"PC-1", "Ana", "Area", "SI", "NO", "W10"}, rows[1][:6])
}

func TestExportOrgNodesAndUnknown(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	createNode(t, db, "Dept", area)

	exports := NewExportService(db)
	content, _, err := exports.Export(ExportOrgNodes, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Áreas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nombre Área", rows[0][0])
	assert.Equal(t, "PCs (OK/Total)", rows[0][3])

	_, _, err = exports.Export("laptops", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, ExportEntities(), "monitors")
	assert.Contains(t, ExportEntities(), ExportComponents)
}
