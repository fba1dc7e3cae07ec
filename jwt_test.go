package main

import (
	"testing"
	"time"

	"inventario-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTGenerationAndValidation(t *testing.T) {
	// Тестируем генерацию токена
	token, err := utils.GenerateJWT(1, "test@example.com", true)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Тестируем валидацию токена
	claims, err := utils.ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.WithinDuration(t, time.Now().Add(utils.TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTRejectsForeignTokens(t *testing.T) {
	// Подпись другим ключом
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"email":   "test@example.com",
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	_, err = utils.ValidateJWT(tokenString)
	assert.Error(t, err)

	// Истекший токен
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString(utils.JWTSecret())
	assert.NoError(t, err)

	_, err = utils.ValidateJWT(expiredString)
	assert.Error(t, err)
}
