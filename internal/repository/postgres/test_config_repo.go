package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// TestConfigRepo реализует repository.TestConfigRepository
type TestConfigRepo struct {
	db *gorm.DB
}

// NewTestConfigRepo создает новый репозиторий конфигураций тестов
func NewTestConfigRepo(db *gorm.DB) *TestConfigRepo {
	return &TestConfigRepo{db: db}
}

// Create создает новую конфигурацию (или новую версию существующей)
func (r *TestConfigRepo) Create(config *entity.TestConfig) error {
	return r.db.Create(config).Error
}

// GetByID возвращает конфигурацию по ID
func (r *TestConfigRepo) GetByID(id uint) (*entity.TestConfig, error) {
	var config entity.TestConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// ListByOwner возвращает конфигурации пользователя с пагинацией и общим количеством
func (r *TestConfigRepo) ListByOwner(ownerID uint, limit, offset int) ([]entity.TestConfig, int64, error) {
	var configs []entity.TestConfig
	var total int64

	if err := r.db.Model(&entity.TestConfig{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&configs).Error
	if err != nil {
		return nil, 0, err
	}
	return configs, total, nil
}
