package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// List возвращает вопросы с пагинацией и общим количеством
func (r *QuestionRepo) List(limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	if err := r.db.Model(&entity.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListAll возвращает все вопросы банка (используется экспортом)
func (r *QuestionRepo) ListAll() ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// FindByFilters возвращает пул вопросов под фильтры генерации.
// Вопросы с окном действия, не покрывающим now, исключаются.
func (r *QuestionRepo) FindByFilters(subtopicIDs []uint, difficulties []int, now time.Time) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Where("subtopic_id IN ?", subtopicIDs)
	if len(difficulties) > 0 {
		query = query.Where("difficulty IN ?", difficulties)
	}
	query = query.
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until >= ?", now)

	err := query.Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// FindByIDs возвращает вопросы по списку ID. Порядок не гарантируется,
// удаленные вопросы молча отсутствуют в результате.
func (r *QuestionRepo) FindByIDs(ids []uint) ([]entity.Question, error) {
	if len(ids) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
