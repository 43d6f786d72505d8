package repository

import (
	"time"

	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с банком вопросов
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
	List(limit, offset int) ([]entity.Question, int64, error)
	ListAll() ([]entity.Question, error)

	// FindByFilters возвращает пул вопросов, подходящих под фильтры генерации:
	// подтема ∈ subtopicIDs, сложность ∈ difficulties, окно действия покрывает now.
	// Порядок не гарантируется - генератор перемешивает сам.
	FindByFilters(subtopicIDs []uint, difficulties []int, now time.Time) ([]entity.Question, error)

	// FindByIDs возвращает вопросы по списку ID. Удаленные вопросы просто
	// отсутствуют в результате - вызывающий обрабатывает это сам.
	FindByIDs(ids []uint) ([]entity.Question, error)
}
