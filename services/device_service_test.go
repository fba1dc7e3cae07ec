package services

import (
	"testing"

	"inventario-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePCTakesNodeFromResponsible(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	dept := createNode(t, db, "Dept", area)

	person, err := NewPersonService(db).Create("Ana", &dept.ID)
	require.NoError(t, err)
	code, _, err := NewInventoryCodeService(db).GetOrCreate("PC-1", nil)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	devices := NewDeviceService(db, notifier)

	pc := &models.PC{OrgNodeID: area.ID, ResponsibleID: &person.ID, InventoryCodeID: &code.ID}
	require.NoError(t, devices.SavePC(pc))
	assert.Equal(t, dept.ID, pc.OrgNodeID)

	// Номер получил тип PC
	saved, err := NewInventoryCodeService(db).Get(code.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.DeviceType)
	assert.Equal(t, models.DeviceTypePC, *saved.DeviceType)

	assert.Equal(t, []string{"device.saved:PC"}, notifier.events)

	// Без узла ПК не сохраняется
	assert.ErrorIs(t, devices.SavePC(&models.PC{}), ErrOrgNodeRequired)
	assert.ErrorIs(t, devices.SavePC(&models.PC{OrgNodeID: 999}), ErrNotFound)
}

func TestSubmitPCRejectsTakenCode(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	devices := NewDeviceService(db, nil)
	codes := NewInventoryCodeService(db)

	code, _, err := codes.GetOrCreate("PC-1", nil)
	require.NoError(t, err)
	require.NoError(t, devices.SubmitPC(&models.PC{OrgNodeID: area.ID, InventoryCodeID: &code.ID}))

	err = devices.SubmitPC(&models.PC{OrgNodeID: area.ID, InventoryCodeID: &code.ID})
	assert.ErrorIs(t, err, ErrCodeInUse)

	monitorCode, err := codes.Create("M-1", models.TypeOf(models.DeviceTypeMonitor))
	require.NoError(t, err)
	err = devices.SubmitPC(&models.PC{OrgNodeID: area.ID, InventoryCodeID: &monitorCode.ID})
	assert.ErrorIs(t, err, ErrCodeTypeMismatch)
}

func TestSavePeripheralFollowsPC(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	dept := createNode(t, db, "Dept", area)
	persons := NewPersonService(db)
	devices := NewDeviceService(db, nil)

	owner, err := persons.Create("Ana", &dept.ID)
	require.NoError(t, err)
	other, err := persons.Create("Luis", &area.ID)
	require.NoError(t, err)

	pc := &models.PC{OrgNodeID: dept.ID, ResponsibleID: &owner.ID}
	require.NoError(t, devices.SavePC(pc))

	p := &models.Peripheral{Kind: models.DeviceTypeKeyboard, AssociatedPCID: &pc.ID, ResponsibleID: &other.ID}
	require.NoError(t, devices.SavePeripheral(p))
	assert.Equal(t, owner.ID, *p.ResponsibleID)
	assert.Equal(t, dept.ID, *p.OrgNodeID)
	assert.Equal(t, models.DefaultBrand, p.Brand)

	// Без ПК узел берется у ответственного
	loose := &models.Peripheral{Kind: models.DeviceTypeUPS, ResponsibleID: &other.ID, Brand: "APC"}
	require.NoError(t, devices.SavePeripheral(loose))
	assert.Equal(t, area.ID, *loose.OrgNodeID)
	assert.Equal(t, "APC", loose.Brand)

	assert.ErrorIs(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypePC}), ErrInvalidKind)
	assert.ErrorIs(t, devices.SavePeripheral(&models.Peripheral{Kind: models.DeviceTypeMouse, AssociatedPCID: uintPtr(999)}), ErrNotFound)
}

func TestSubmitPeripheralConflictLeavesRowsUnchanged(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	devices := NewDeviceService(db, nil)

	pcA := &models.PC{OrgNodeID: area.ID}
	require.NoError(t, devices.SavePC(pcA))
	pcB := &models.PC{OrgNodeID: area.ID}
	require.NoError(t, devices.SavePC(pcB))

	code, _, err := NewInventoryCodeService(db).GetOrCreate("M-7", nil)
	require.NoError(t, err)
	existing := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &code.ID, AssociatedPCID: &pcA.ID}
	require.NoError(t, devices.SavePeripheral(existing))

	incoming := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &code.ID, AssociatedPCID: &pcB.ID}
	err = devices.SubmitPeripheral(incoming)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "M-7", conflict.Code)

	var count int64
	db.Model(&models.Peripheral{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Zero(t, incoming.ID)

	kept, err := devices.GetPeripheral(models.DeviceTypeMonitor, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, pcA.ID, *kept.AssociatedPCID)
}

func TestSubmitPeripheralReplacesPreviousHolder(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	notifier := &recordingNotifier{}
	devices := NewDeviceService(db, notifier)

	pc := &models.PC{OrgNodeID: area.ID}
	require.NoError(t, devices.SavePC(pc))

	code, _, err := NewInventoryCodeService(db).GetOrCreate("M-8", nil)
	require.NoError(t, err)

	// Прежний владелец номера без ПК
	loose := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &code.ID, OrgNodeID: &area.ID}
	require.NoError(t, devices.SavePeripheral(loose))

	notifier.events = nil
	incoming := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &code.ID, AssociatedPCID: &pc.ID}
	require.NoError(t, devices.SubmitPeripheral(incoming))

	_, err = devices.GetPeripheral(models.DeviceTypeMonitor, loose.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := devices.GetPeripheral(models.DeviceTypeMonitor, incoming.ID)
	require.NoError(t, err)
	assert.Equal(t, "M-8", saved.InventoryCode.Code)

	assert.Equal(t, []string{"device.deleted:Monitor", "device.saved:Monitor"}, notifier.events)

	// Номер, привязанный к мониторам, не подходит для мыши
	mouse := &models.Peripheral{Kind: models.DeviceTypeMouse, InventoryCodeID: &code.ID}
	assert.ErrorIs(t, devices.SubmitPeripheral(mouse), ErrCodeTypeMismatch)
}

func TestSubmitPeripheralReassignsCode(t *testing.T) {
	tests := []struct {
		name         string
		firstOnPC    bool
		incomingOnPC bool
	}{
		{name: "both without PC", firstOnPC: false, incomingOnPC: false},
		{name: "both on the same PC", firstOnPC: true, incomingOnPC: true},
		{name: "first without PC, incoming on PC", firstOnPC: false, incomingOnPC: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			area := createNode(t, db, "Area", nil)
			devices := NewDeviceService(db, nil)

			pc := &models.PC{OrgNodeID: area.ID}
			require.NoError(t, devices.SavePC(pc))

			code, _, err := NewInventoryCodeService(db).GetOrCreate("K-1", nil)
			require.NoError(t, err)

			first := &models.Peripheral{Kind: models.DeviceTypeKeyboard, InventoryCodeID: &code.ID, OrgNodeID: &area.ID}
			if tt.firstOnPC {
				first.AssociatedPCID = &pc.ID
			}
			require.NoError(t, devices.SavePeripheral(first))

			incoming := &models.Peripheral{Kind: models.DeviceTypeKeyboard, InventoryCodeID: &code.ID, OrgNodeID: &area.ID}
			if tt.incomingOnPC {
				incoming.AssociatedPCID = &pc.ID
			}
			require.NoError(t, devices.SubmitPeripheral(incoming))

			_, err = devices.GetPeripheral(models.DeviceTypeKeyboard, first.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			var count int64
			db.Model(&models.Peripheral{}).Where("kind = ?", models.DeviceTypeKeyboard).Count(&count)
			assert.Equal(t, int64(1), count)

			saved, err := devices.GetPeripheral(models.DeviceTypeKeyboard, incoming.ID)
			require.NoError(t, err)
			assert.Equal(t, code.ID, *saved.InventoryCodeID)
		})
	}
}

func TestSavePeripheralKeepsCodeTypeUnique(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	codes := NewInventoryCodeService(db)
	devices := NewDeviceService(db, nil)

	untyped, err := codes.Create("X-1", nil)
	require.NoError(t, err)
	_, err = codes.Create("X-1", models.TypeOf(models.DeviceTypeMonitor))
	require.NoError(t, err)

	monitor := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &untyped.ID, OrgNodeID: &area.ID}
	assert.ErrorIs(t, devices.SavePeripheral(monitor), ErrDuplicateCode)
	assert.Zero(t, monitor.ID)

	var pairs int64
	db.Model(&models.InventoryCode{}).Where("code = ? AND device_type = ?", "X-1", models.DeviceTypeMonitor).Count(&pairs)
	assert.Equal(t, int64(1), pairs)

	reloaded, err := codes.Get(untyped.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DeviceType)

	// Схема тоже не допускает повтор пары
	dup := models.InventoryCode{Code: "X-1", DeviceType: models.TypeOf(models.DeviceTypeMonitor)}
	assert.Error(t, db.Create(&dup).Error)
}

func TestDeletePCHandlesPeripherals(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	devices := NewDeviceService(db, nil)

	pc := &models.PC{OrgNodeID: area.ID}
	require.NoError(t, devices.SavePC(pc))

	monitor := &models.Peripheral{Kind: models.DeviceTypeMonitor, AssociatedPCID: &pc.ID}
	require.NoError(t, devices.SavePeripheral(monitor))
	mouse := &models.Peripheral{Kind: models.DeviceTypeMouse, AssociatedPCID: &pc.ID}
	require.NoError(t, devices.SavePeripheral(mouse))

	grouped, err := devices.PeripheralsOfPC(pc.ID)
	require.NoError(t, err)
	assert.Len(t, grouped[models.DeviceTypeMonitor], 1)
	assert.Len(t, grouped[models.DeviceTypeMouse], 1)

	require.NoError(t, devices.DeletePC(pc.ID, []models.DeviceType{models.DeviceTypeMonitor}))

	_, err = devices.GetPC(pc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = devices.GetPeripheral(models.DeviceTypeMonitor, monitor.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := devices.GetPeripheral(models.DeviceTypeMouse, mouse.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.AssociatedPCID)

	assert.ErrorIs(t, devices.DeletePC(pc.ID, nil), ErrNotFound)
}

func TestListPCsFilters(t *testing.T) {
	db := setupTestDB(t)
	area := createNode(t, db, "Area", nil)
	dept := createNode(t, db, "Dept", area)
	other := createNode(t, db, "Other", nil)
	devices := NewDeviceService(db, nil)
	components := NewComponentService(db)

	w10, _, err := components.GetOrCreate(models.ComponentOS, "W10")
	require.NoError(t, err)

	code, _, err := NewInventoryCodeService(db).GetOrCreate("PC-42", nil)
	require.NoError(t, err)
	require.NoError(t, devices.SavePC(&models.PC{OrgNodeID: dept.ID, OperatingSystemID: &w10.ID, InventoryCodeID: &code.ID}))
	require.NoError(t, devices.SavePC(&models.PC{OrgNodeID: other.ID}))

	scope, err := NewHierarchyService(db).ResolveScope(ScopeFilter{AreaID: &area.ID})
	require.NoError(t, err)
	pcs, err := devices.ListPCs(PCFilter{Scope: scope})
	require.NoError(t, err)
	assert.Len(t, pcs, 1)

	pcs, err = devices.ListPCs(PCFilter{Components: map[models.ComponentCategory]uint{models.ComponentOS: w10.ID}})
	require.NoError(t, err)
	require.Len(t, pcs, 1)
	assert.Equal(t, "W10", pcs[0].OperatingSystem.Name)

	pcs, err = devices.ListPCs(PCFilter{Search: "pc-4"})
	require.NoError(t, err)
	assert.Len(t, pcs, 1)
}
