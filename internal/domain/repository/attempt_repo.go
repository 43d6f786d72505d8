package repository

import (
	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками прохождения
type AttemptRepository interface {
	Create(attempt *entity.Attempt) error
	GetByID(id uint) (*entity.Attempt, error)
	ListByTest(generatedTestID uint) ([]entity.Attempt, error)
	ListByUser(userID uint, limit, offset int) ([]entity.Attempt, int64, error)
	CountByTest(generatedTestID uint) (int64, error)
}
