package controllers

import (
	"errors"
	"strings"

	"inventario-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController контроллер для аутентификации
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{authService: services.NewAuthService(db)}
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo данные пользователя в ответе
type UserInfo struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

// AuthResponse структура ответа аутентификации
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token,omitempty"`
	User    *UserInfo `json:"user,omitempty"`
}

// Login обрабатывает вход сотрудника
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Email and password are required",
		})
	}

	user, token, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(401).JSON(AuthResponse{
				Success: false,
				Message: "Invalid email or password",
			})
		}
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Failed to log in",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: &UserInfo{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			IsStaff: user.IsStaff,
		},
	})
}

// Me возвращает данные текущего пользователя из токена
func (ac *AuthController) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user_id": c.Locals("user_id"),
		"email":   c.Locals("user_email"),
	})
}
