package repository

import (
	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// TestConfigRepository определяет методы для работы с конфигурациями тестов.
// Конфигурации append-only: Update отсутствует намеренно - новая версия
// конфигурации создается через Create.
type TestConfigRepository interface {
	Create(config *entity.TestConfig) error
	GetByID(id uint) (*entity.TestConfig, error)
	ListByOwner(ownerID uint, limit, offset int) ([]entity.TestConfig, int64, error)
}
