package repository

import (
	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdateTestStats атомарно инкрементирует tests_taken и поднимает best_score,
	// если новый результат выше текущего
	UpdateTestStats(userID uint, score float64) error
	ListByRole(role string, limit, offset int) ([]entity.User, error)
}
