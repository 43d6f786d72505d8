package repository

import (
	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// GeneratedTestRepository определяет методы для работы со снапшотами тестов
type GeneratedTestRepository interface {
	// Create атомарно сохраняет тест вместе со всеми позициями вопросов.
	// Частичная запись недопустима: либо весь снапшот, либо ничего.
	Create(test *entity.GeneratedTest) error
	// GetByID возвращает тест с позициями вопросов, упорядоченными по seq_num
	GetByID(id uint) (*entity.GeneratedTest, error)
	GetByPublicID(publicID string) (*entity.GeneratedTest, error)
	ListByUser(userID uint, limit, offset int) ([]entity.GeneratedTest, int64, error)
}
