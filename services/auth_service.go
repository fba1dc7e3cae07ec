package services

import (
	"errors"
	"log"
	"strings"

	"inventario-backend/models"
	"inventario-backend/utils"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService вход сотрудников
type AuthService struct {
	db *gorm.DB
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login проверяет пароль и выдает JWT токен
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// CreateStaff создает сотрудника с доступом к API
func (s *AuthService) CreateStaff(name, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAdmin создает учетную запись администратора, если пользователей еще нет
func (s *AuthService) EnsureAdmin(email, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Пользователи уже существуют (%d)", count)
		return nil
	}
	if password == "" {
		log.Println("ADMIN_PASSWORD не задан, администратор не создан")
		return nil
	}

	if _, err := s.CreateStaff("Administrador", email, password); err != nil {
		return err
	}
	log.Printf("Создан администратор: %s", email)
	return nil
}
