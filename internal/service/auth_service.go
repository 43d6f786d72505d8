package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
	"github.com/yourusername/examprep-api/pkg/auth"
)

// AuthService предоставляет методы регистрации и входа
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        string
	ParentEmail string
	BirthDate   *time.Time
}

// Register создает нового пользователя и возвращает его вместе с access-токеном.
// Роль admin через публичную регистрацию не выдается.
func (s *AuthService) Register(input RegisterInput) (*entity.User, string, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleStudent
	}
	if !entity.IsValidRole(role) {
		return nil, "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	if role == entity.RoleAdmin {
		return nil, "", fmt.Errorf("%w: admin accounts are provisioned manually", apperrors.ErrForbidden)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}
	if _, err := s.userRepo.GetByUsername(input.Username); err == nil {
		return nil, "", fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
	}

	user := &entity.User{
		Username:    input.Username,
		Email:       email,
		Password:    input.Password, // Хешируется в BeforeSave
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        role,
		ParentEmail: strings.ToLower(strings.TrimSpace(input.ParentEmail)),
		BirthDate:   input.BirthDate,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка при создании пользователя email=%s: %v", email, err)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login проверяет учетные данные и выпускает access-токен
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Не раскрываем, существует ли email
		return nil, "", apperrors.ErrUnauthorized
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser возвращает пользователя по ID
func (s *AuthService) GetUser(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}
