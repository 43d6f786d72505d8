package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create создает новую попытку
func (r *AttemptRepo) Create(attempt *entity.Attempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по ID
func (r *AttemptRepo) GetByID(id uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByTest возвращает все попытки по сгенерированному тесту
func (r *AttemptRepo) ListByTest(generatedTestID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("generated_test_id = ?", generatedTestID).
		Order("created_at").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListByUser возвращает попытки пользователя с пагинацией и общим количеством
func (r *AttemptRepo) ListByUser(userID uint, limit, offset int) ([]entity.Attempt, int64, error) {
	var attempts []entity.Attempt
	var total int64

	if err := r.db.Model(&entity.Attempt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// CountByTest возвращает количество попыток по тесту
func (r *AttemptRepo) CountByTest(generatedTestID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Attempt{}).
		Where("generated_test_id = ?", generatedTestID).
		Count(&count).Error
	return count, err
}
