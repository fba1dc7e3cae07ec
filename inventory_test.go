package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventario-backend/models"
	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// doRequest выполняет запрос к приложению от имени сотрудника
func doRequest(t *testing.T, app *fiber.App, token, method, url string, body interface{}) *http.Response {
	var reader *bytes.Buffer
	if body != nil {
		jsonData, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// inventoryFixture базовая структура для тестов API
type inventoryFixture struct {
	db     *gorm.DB
	app    *fiber.App
	token  string
	area   *models.OrgNode
	dept   *models.OrgNode
	person *models.Person
}

func setupInventoryFixture(t *testing.T) *inventoryFixture {
	db := setupTestDB()
	staff := createTestStaff(db)

	hierarchy := services.NewHierarchyService(db)
	area, err := hierarchy.Create("Dirección Administrativa", nil)
	require.NoError(t, err)
	dept, err := hierarchy.Create("Economía", &area.ID)
	require.NoError(t, err)

	person, err := services.NewPersonService(db).Create("Ana Pérez", &dept.ID)
	require.NoError(t, err)

	return &inventoryFixture{
		db:     db,
		app:    setupTestApp(db),
		token:  generateTestJWT(staff.ID, true),
		area:   area,
		dept:   dept,
		person: person,
	}
}

func TestAPIRequiresToken(t *testing.T) {
	f := setupInventoryFixture(t)

	for _, url := range []string{"/api/org-nodes", "/api/pcs", "/api/peripherals/monitor", "/api/export", "/api/dashboard"} {
		resp := doRequest(t, f.app, "", "GET", url, nil)
		assert.Equal(t, 401, resp.StatusCode, url)
	}
}

func TestCreatePCUpdatesStats(t *testing.T) {
	f := setupInventoryFixture(t)

	// ПК получает узел ответственного
	resp := doRequest(t, f.app, f.token, "POST", "/api/pcs", map[string]interface{}{
		"responsible_id": f.person.ID,
		"org_node_id":    f.area.ID,
		"works":          true,
	})
	require.Equal(t, 201, resp.StatusCode)
	body := decodeBody(t, resp)
	pc := body["pc"].(map[string]interface{})
	assert.Equal(t, float64(f.dept.ID), pc["org_node_id"])

	resp = doRequest(t, f.app, f.token, "GET", fmt.Sprintf("/api/org-nodes/%d/stats", f.area.ID), nil)
	require.Equal(t, 200, resp.StatusCode)
	stats := decodeBody(t, resp)["stats"].(map[string]interface{})
	devices := stats["devices"].(map[string]interface{})
	assert.Equal(t, "1/1", devices["PC"])
	assert.Equal(t, "-", devices["Monitor"])
	assert.Equal(t, "1", stats["persons"])

	// Без узла и без ответственного ПК не сохраняется
	resp = doRequest(t, f.app, f.token, "POST", "/api/pcs", map[string]interface{}{"works": true})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestOrgNodeRoutes(t *testing.T) {
	f := setupInventoryFixture(t)

	resp := doRequest(t, f.app, f.token, "GET", "/api/org-nodes/levels/second", nil)
	require.Equal(t, 200, resp.StatusCode)

	resp = doRequest(t, f.app, f.token, "GET", fmt.Sprintf("/api/org-nodes/%d/label", f.dept.ID), nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Dirección Administrativa - Economía", decodeBody(t, resp)["label"])

	// Дубликат имени под тем же родителем
	resp = doRequest(t, f.app, f.token, "POST", "/api/org-nodes", map[string]interface{}{
		"name":      "Economía",
		"parent_id": f.area.ID,
	})
	assert.Equal(t, 409, resp.StatusCode)

	// Узел с ответственным удалить нельзя
	resp = doRequest(t, f.app, f.token, "DELETE", fmt.Sprintf("/api/org-nodes/%d", f.area.ID), nil)
	assert.Equal(t, 409, resp.StatusCode)

	resp = doRequest(t, f.app, f.token, "GET", "/api/org-nodes/abc", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAvailableInventoryCodes(t *testing.T) {
	f := setupInventoryFixture(t)
	codes := services.NewInventoryCodeService(f.db)
	devices := services.NewDeviceService(f.db, nil)

	monitor := models.DeviceTypeMonitor
	free, err := codes.Create("M-001", &monitor)
	require.NoError(t, err)
	used, err := codes.Create("M-002", &monitor)
	require.NoError(t, err)
	require.NoError(t, devices.SavePeripheral(&models.Peripheral{Kind: monitor, InventoryCodeID: &used.ID}))

	resp := doRequest(t, f.app, f.token, "GET", "/api/inventory-codes/available?type=Monitor&term=m-", nil)
	require.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp)

	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, fmt.Sprint(free.ID), first["id"])
	assert.Equal(t, "M-001", first["text"])
	assert.Equal(t, false, body["pagination"].(map[string]interface{})["more"])

	resp = doRequest(t, f.app, f.token, "GET", "/api/inventory-codes/available", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPeripheralConflict(t *testing.T) {
	f := setupInventoryFixture(t)
	devices := services.NewDeviceService(f.db, nil)
	codes := services.NewInventoryCodeService(f.db)

	pcA := &models.PC{OrgNodeID: f.dept.ID}
	require.NoError(t, devices.SavePC(pcA))
	pcB := &models.PC{OrgNodeID: f.dept.ID}
	require.NoError(t, devices.SavePC(pcB))

	code, _, err := codes.GetOrCreate("M-7", nil)
	require.NoError(t, err)
	existing := &models.Peripheral{Kind: models.DeviceTypeMonitor, InventoryCodeID: &code.ID, AssociatedPCID: &pcA.ID}
	require.NoError(t, devices.SavePeripheral(existing))

	resp := doRequest(t, f.app, f.token, "POST", "/api/peripherals/monitor", map[string]interface{}{
		"inventory_code_id": code.ID,
		"associated_pc_id":  pcB.ID,
		"works":             true,
	})
	assert.Equal(t, 409, resp.StatusCode)

	// Прежний монитор не изменился, новый не создан
	var count int64
	f.db.Model(&models.Peripheral{}).Count(&count)
	assert.Equal(t, int64(1), count)
	kept, err := devices.GetPeripheral(models.DeviceTypeMonitor, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, pcA.ID, *kept.AssociatedPCID)

	resp = doRequest(t, f.app, f.token, "GET", "/api/peripherals/laptop", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestExportAndDashboard(t *testing.T) {
	f := setupInventoryFixture(t)
	require.NoError(t, services.NewDeviceService(f.db, nil).SavePC(&models.PC{OrgNodeID: f.dept.ID, Works: true}))

	resp := doRequest(t, f.app, f.token, "GET", "/api/export/pcs", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, services.XLSXContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	resp = doRequest(t, f.app, f.token, "GET", "/api/export/unknown", nil)
	assert.Equal(t, 404, resp.StatusCode)

	resp = doRequest(t, f.app, f.token, "GET", "/api/dashboard", nil)
	require.Equal(t, 200, resp.StatusCode)
	totals := decodeBody(t, resp)["totals"].(map[string]interface{})
	assert.Equal(t, "1/1", totals["PC"].(map[string]interface{})["text"])
}

func TestImportValidation(t *testing.T) {
	f := setupInventoryFixture(t)

	resp := doRequest(t, f.app, f.token, "POST", "/api/imports/unknown", nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doRequest(t, f.app, f.token, "POST", "/api/imports/monitors", nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doRequest(t, f.app, f.token, "POST", "/api/imports/components", nil)
	require.Equal(t, 200, resp.StatusCode)
	report := decodeBody(t, resp)["report"].(map[string]interface{})
	assert.Greater(t, report["created"].(float64), float64(0))
}
