package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// GeneratedTestRepo реализует repository.GeneratedTestRepository
type GeneratedTestRepo struct {
	db *gorm.DB
}

// NewGeneratedTestRepo создает новый репозиторий сгенерированных тестов
func NewGeneratedTestRepo(db *gorm.DB) *GeneratedTestRepo {
	return &GeneratedTestRepo{db: db}
}

// Create атомарно сохраняет тест вместе с позициями вопросов.
// GORM вставляет ассоциации Questions в той же транзакции, так что
// частично записанный снапшот наблюдать невозможно.
func (r *GeneratedTestRepo) Create(test *entity.GeneratedTest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(test).Error
	})
}

// GetByID возвращает тест с позициями вопросов в порядке seq_num
func (r *GeneratedTestRepo) GetByID(id uint) (*entity.GeneratedTest, error) {
	var test entity.GeneratedTest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("test_questions.seq_num")
	}).First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// GetByPublicID возвращает тест по внешнему UUID
func (r *GeneratedTestRepo) GetByPublicID(publicID string) (*entity.GeneratedTest, error) {
	var test entity.GeneratedTest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("test_questions.seq_num")
	}).Where("public_id = ?", publicID).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// ListByUser возвращает тесты пользователя с пагинацией и общим количеством
func (r *GeneratedTestRepo) ListByUser(userID uint, limit, offset int) ([]entity.GeneratedTest, int64, error) {
	var tests []entity.GeneratedTest
	var total int64

	if err := r.db.Model(&entity.GeneratedTest{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}
