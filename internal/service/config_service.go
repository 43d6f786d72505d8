package service

import (
	"fmt"
	"log"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ConfigService предоставляет методы для работы с конфигурациями тестов
type ConfigService struct {
	configRepo repository.TestConfigRepository
	userRepo   repository.UserRepository
}

// NewConfigService создает новый сервис конфигураций
func NewConfigService(configRepo repository.TestConfigRepository, userRepo repository.UserRepository) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		userRepo:   userRepo,
	}
}

// ConfigInput содержит параметры создаваемой конфигурации
type ConfigInput struct {
	StudentID        uint // 0 = тест для самого создателя
	TopicIDs         []uint
	SubtopicIDs      []uint
	DifficultyLevels []int
	QuestionCount    int
	TimeLimitMin     int
	TestType         string
}

// CreateConfig создает новую конфигурацию теста.
// Тьютор или админ может создать конфигурацию от имени студента (input.StudentID);
// студент создает только для себя.
func (s *ConfigService) CreateConfig(ownerID uint, input ConfigInput) (*entity.TestConfig, error) {
	if err := validateConfigInput(input); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, err
	}

	studentID := ownerID
	if input.StudentID != 0 && input.StudentID != ownerID {
		student, err := s.userRepo.GetByID(input.StudentID)
		if err != nil {
			return nil, fmt.Errorf("student not found: %w", err)
		}
		if !owner.CanActFor(student) {
			return nil, fmt.Errorf("%w: cannot create configuration for student %d", apperrors.ErrForbidden, input.StudentID)
		}
		studentID = student.ID
	}

	config := &entity.TestConfig{
		OwnerID:          ownerID,
		StudentID:        studentID,
		TopicIDs:         entity.UintArray(input.TopicIDs),
		SubtopicIDs:      entity.UintArray(input.SubtopicIDs),
		DifficultyLevels: entity.IntArray(input.DifficultyLevels),
		QuestionCount:    input.QuestionCount,
		TimeLimitMin:     input.TimeLimitMin,
		TestType:         input.TestType,
	}

	if err := s.configRepo.Create(config); err != nil {
		log.Printf("[ConfigService] Ошибка при создании конфигурации для owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}

	return config, nil
}

// ReviseConfig создает новую версию конфигурации с измененными параметрами.
// Старая строка не мутируется: сгенерированные по ней тесты продолжают
// ссылаться на исходные параметры (append-only семантика).
func (s *ConfigService) ReviseConfig(configID, requesterID uint, input ConfigInput) (*entity.TestConfig, error) {
	original, err := s.configRepo.GetByID(configID)
	if err != nil {
		return nil, err
	}
	if original.OwnerID != requesterID {
		requester, err := s.userRepo.GetByID(requesterID)
		if err != nil {
			return nil, err
		}
		if !requester.IsAdmin() {
			return nil, fmt.Errorf("%w: configuration %d belongs to another user", apperrors.ErrForbidden, configID)
		}
	}

	// Целевой студент наследуется от оригинала
	input.StudentID = original.StudentID
	return s.CreateConfig(original.OwnerID, input)
}

// GetConfig возвращает конфигурацию по ID с проверкой доступа
func (s *ConfigService) GetConfig(configID, requesterID uint) (*entity.TestConfig, error) {
	config, err := s.configRepo.GetByID(configID)
	if err != nil {
		return nil, err
	}
	if config.OwnerID == requesterID || config.StudentID == requesterID {
		return config, nil
	}

	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() {
		return nil, fmt.Errorf("%w: configuration %d belongs to another user", apperrors.ErrForbidden, configID)
	}
	return config, nil
}

// ListConfigs возвращает конфигурации пользователя с пагинацией
func (s *ConfigService) ListConfigs(ownerID uint, page, pageSize int) ([]entity.TestConfig, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.configRepo.ListByOwner(ownerID, pageSize, offset)
}

// validateConfigInput проверяет контракты конфигурации:
// question count ∈ [1,100], time limit ∈ [5,180], хотя бы один фильтр, известный тип теста
func validateConfigInput(input ConfigInput) error {
	if input.QuestionCount < entity.MinQuestionCount || input.QuestionCount > entity.MaxQuestionCount {
		return fmt.Errorf("%w: question_count must be between %d and %d",
			apperrors.ErrValidation, entity.MinQuestionCount, entity.MaxQuestionCount)
	}
	if input.TimeLimitMin < entity.MinTimeLimitMin || input.TimeLimitMin > entity.MaxTimeLimitMin {
		return fmt.Errorf("%w: time_limit_min must be between %d and %d",
			apperrors.ErrValidation, entity.MinTimeLimitMin, entity.MaxTimeLimitMin)
	}
	if len(input.TopicIDs) == 0 && len(input.SubtopicIDs) == 0 {
		return fmt.Errorf("%w: at least one topic or subtopic filter is required", apperrors.ErrValidation)
	}
	if !entity.IsValidTestType(input.TestType) {
		return fmt.Errorf("%w: unknown test type %q", apperrors.ErrValidation, input.TestType)
	}
	for _, d := range input.DifficultyLevels {
		if d < 1 || d > 5 {
			return fmt.Errorf("%w: invalid difficulty level %d", apperrors.ErrValidation, d)
		}
	}
	return nil
}
