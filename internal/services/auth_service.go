// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/config"
	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

// AuthService authenticates back-office operators. The store runs
// single-operator: an unknown email creates the account only while the user
// table is still empty, after which login requires an existing account.
type AuthService struct {
	db  *gorm.DB
	cfg *config.JWTConfig
}

func NewAuthService(db *gorm.DB, cfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")

func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	var user models.User
	err := s.db.First(&user, "email = ?", email).Error
	switch {
	case err == nil:
		if err := user.CheckPassword(password); err != nil {
			return nil, ErrInvalidCredentials
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.bootstrapOperator(email, password)
		if err != nil {
			return nil, err
		}
		user = *created
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := utils.GenerateJWT(user.ID, user.Email, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{User: &user, Token: token}, nil
}

func (s *AuthService) bootstrapOperator(email, password string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrInvalidCredentials
	}

	user := &models.User{Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return user, nil
}

func (s *AuthService) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
