package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"inventario-backend/controllers"
	"inventario-backend/services"
	"inventario-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := setupTestDB()
	createTestStaff(db)
	app := setupTestApp(db)

	tests := []struct {
		name            string
		request         controllers.LoginRequest
		expectedStatus  int
		expectedSuccess bool
	}{
		{
			name: "Успешный вход",
			request: controllers.LoginRequest{
				Email:    "staff@test.com",
				Password: "password123",
			},
			expectedStatus:  200,
			expectedSuccess: true,
		},
		{
			name: "Email без учета регистра",
			request: controllers.LoginRequest{
				Email:    "  Staff@Test.com ",
				Password: "password123",
			},
			expectedStatus:  200,
			expectedSuccess: true,
		},
		{
			name: "Неверный пароль",
			request: controllers.LoginRequest{
				Email:    "staff@test.com",
				Password: "wrongpassword",
			},
			expectedStatus:  401,
			expectedSuccess: false,
		},
		{
			name: "Несуществующий пользователь",
			request: controllers.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password123",
			},
			expectedStatus:  401,
			expectedSuccess: false,
		},
		{
			name: "Пустой пароль",
			request: controllers.LoginRequest{
				Email: "staff@test.com",
			},
			expectedStatus:  400,
			expectedSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonData, _ := json.Marshal(tt.request)
			req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonData))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var response controllers.AuthResponse
			err = json.NewDecoder(resp.Body).Decode(&response)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSuccess, response.Success)

			if tt.expectedSuccess {
				assert.NotEmpty(t, response.Token)
				assert.True(t, response.User.IsStaff)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB()
	staff := createTestStaff(db)
	app := setupTestApp(db)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"Без заголовка", "", 401},
		{"Неверный формат", "Token abc", 401},
		{"Неверный токен", "Bearer invalid", 401},
		{"Не сотрудник", "Bearer " + generateTestJWT(staff.ID, false), 403},
		{"Сотрудник", "Bearer " + generateTestJWT(staff.ID, true), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := setupTestDB()
	auth := services.NewAuthService(db)

	// Без пароля администратор не создается
	require.NoError(t, auth.EnsureAdmin("admin@test.com", ""))
	_, _, err := auth.Login("admin@test.com", "")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	require.NoError(t, auth.EnsureAdmin("admin@test.com", "secret"))
	user, token, err := auth.Login("admin@test.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsStaff)

	// Повторный вызов ничего не меняет
	require.NoError(t, auth.EnsureAdmin("other@test.com", "secret"))
	_, _, err = auth.Login("other@test.com", "secret")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestPasswordHash(t *testing.T) {
	password := "testpassword123"

	// Хэшируем пароль
	hash, err := utils.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Проверяем пароль
	isValid := utils.CheckPasswordHash(password, hash)
	assert.True(t, isValid)

	// Проверяем неверный пароль
	isValid = utils.CheckPasswordHash("wrongpassword", hash)
	assert.False(t, isValid)
}

func TestMain(m *testing.M) {
	// Устанавливаем переменную окружения для JWT
	os.Setenv("JWT_SECRET", "test-secret-key")

	// Запускаем тесты
	code := m.Run()

	// Очищаем
	os.Unsetenv("JWT_SECRET")

	os.Exit(code)
}
