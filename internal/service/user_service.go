package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetProfile возвращает профиль пользователя
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdateInput содержит изменяемые поля профиля
type ProfileUpdateInput struct {
	FirstName   *string
	LastName    *string
	ParentEmail *string
}

// UpdateProfile обновляет изменяемые поля профиля
func (s *UserService) UpdateProfile(userID uint, input ProfileUpdateInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.ParentEmail != nil {
		user.ParentEmail = strings.ToLower(strings.TrimSpace(*input.ParentEmail))
	}

	if err := s.userRepo.Update(user); err != nil {
		log.Printf("[UserService] Ошибка при обновлении профиля userID=%d: %v", userID, err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// AssignTutor закрепляет тьютора за студентом. Доступно тьютору (за собой)
// и админу (за любым тьютором).
func (s *UserService) AssignTutor(requesterID, studentID, tutorID uint) error {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return err
	}
	if requester.Role != entity.RoleAdmin && !(requester.Role == entity.RoleTutor && requesterID == tutorID) {
		return fmt.Errorf("%w: only a tutor can claim a student, or an admin can assign one", apperrors.ErrForbidden)
	}

	tutor, err := s.userRepo.GetByID(tutorID)
	if err != nil {
		return err
	}
	if tutor.Role != entity.RoleTutor {
		return fmt.Errorf("%w: user %d is not a tutor", apperrors.ErrValidation, tutorID)
	}

	student, err := s.userRepo.GetByID(studentID)
	if err != nil {
		return err
	}
	if student.Role != entity.RoleStudent {
		return fmt.Errorf("%w: user %d is not a student", apperrors.ErrValidation, studentID)
	}

	student.TutorID = &tutor.ID
	return s.userRepo.Update(student)
}

// ListStudents возвращает студентов (для тьюторов и админов)
func (s *UserService) ListStudents(page, pageSize int) ([]entity.User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.userRepo.ListByRole(entity.RoleStudent, pageSize, offset)
}
