package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ============================================================================
// Тесты для ConfigService
// Моки определены в generator_service_test.go (один пакет)
// ============================================================================

func validConfigInput() ConfigInput {
	return ConfigInput{
		SubtopicIDs:      []uint{5},
		DifficultyLevels: []int{1, 2},
		QuestionCount:    10,
		TimeLimitMin:     30,
		TestType:         entity.TestTypeMixed,
	}
}

func TestConfigService_CreateConfig_Success(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	mockUserRepo := new(MockUserRepository)

	student := &entity.User{ID: 10, Role: entity.RoleStudent}
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)
	mockConfigRepo.On("Create", mock.AnythingOfType("*entity.TestConfig")).Return(nil)

	svc := NewConfigService(mockConfigRepo, mockUserRepo)

	// Act
	config, err := svc.CreateConfig(10, validConfigInput())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(10), config.OwnerID)
	assert.Equal(t, uint(10), config.StudentID, "Студент создает конфигурацию для себя")
	assert.Equal(t, 10, config.QuestionCount)
	assert.Equal(t, 30, config.TimeLimitMin)
	mockConfigRepo.AssertExpectations(t)
}

func TestConfigService_CreateConfig_QuestionCountOutOfRange(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	svc := NewConfigService(mockConfigRepo, new(MockUserRepository))

	for _, count := range []int{0, -1, 101} {
		input := validConfigInput()
		input.QuestionCount = count

		// Act
		config, err := svc.CreateConfig(10, input)

		// Assert
		require.Error(t, err, "question_count=%d должен быть отклонен", count)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Nil(t, config)
	}
	mockConfigRepo.AssertNotCalled(t, "Create")
}

func TestConfigService_CreateConfig_TimeLimitOutOfRange(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	svc := NewConfigService(mockConfigRepo, new(MockUserRepository))

	for _, limit := range []int{0, 4, 181} {
		input := validConfigInput()
		input.TimeLimitMin = limit

		// Act
		_, err := svc.CreateConfig(10, input)

		// Assert
		require.Error(t, err, "time_limit_min=%d должен быть отклонен", limit)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	}
	mockConfigRepo.AssertNotCalled(t, "Create")
}

func TestConfigService_CreateConfig_NoFilters(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	svc := NewConfigService(mockConfigRepo, new(MockUserRepository))

	input := validConfigInput()
	input.TopicIDs = nil
	input.SubtopicIDs = nil

	// Act
	config, err := svc.CreateConfig(10, input)

	// Assert: хотя бы один фильтр обязателен
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Nil(t, config)
	mockConfigRepo.AssertNotCalled(t, "Create")
}

func TestConfigService_CreateConfig_UnknownTestType(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	svc := NewConfigService(mockConfigRepo, new(MockUserRepository))

	input := validConfigInput()
	input.TestType = "speedrun"

	// Act
	_, err := svc.CreateConfig(10, input)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestConfigService_CreateConfig_TutorForLinkedStudent(t *testing.T) {
	// Arrange: тьютор создает конфигурацию для закрепленного студента
	mockConfigRepo := new(MockTestConfigRepository)
	mockUserRepo := new(MockUserRepository)

	tutorID := uint(30)
	tutor := &entity.User{ID: 30, Role: entity.RoleTutor}
	student := &entity.User{ID: 10, Role: entity.RoleStudent, TutorID: &tutorID}

	mockUserRepo.On("GetByID", uint(30)).Return(tutor, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)
	mockConfigRepo.On("Create", mock.AnythingOfType("*entity.TestConfig")).Return(nil)

	svc := NewConfigService(mockConfigRepo, mockUserRepo)

	input := validConfigInput()
	input.StudentID = 10

	// Act
	config, err := svc.CreateConfig(30, input)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(30), config.OwnerID, "Владелец - создавший тьютор")
	assert.Equal(t, uint(10), config.StudentID, "Тест предназначен студенту")
}

func TestConfigService_CreateConfig_TutorForUnlinkedStudentForbidden(t *testing.T) {
	// Arrange: студент закреплен за другим тьютором
	mockConfigRepo := new(MockTestConfigRepository)
	mockUserRepo := new(MockUserRepository)

	otherTutorID := uint(31)
	tutor := &entity.User{ID: 30, Role: entity.RoleTutor}
	student := &entity.User{ID: 10, Role: entity.RoleStudent, TutorID: &otherTutorID}

	mockUserRepo.On("GetByID", uint(30)).Return(tutor, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)

	svc := NewConfigService(mockConfigRepo, mockUserRepo)

	input := validConfigInput()
	input.StudentID = 10

	// Act
	config, err := svc.CreateConfig(30, input)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Nil(t, config)
	mockConfigRepo.AssertNotCalled(t, "Create")
}

func TestConfigService_ReviseConfig_CreatesNewVersion(t *testing.T) {
	// Arrange: правка создает новую строку, оригинал не мутируется
	mockConfigRepo := new(MockTestConfigRepository)
	mockUserRepo := new(MockUserRepository)

	original := &entity.TestConfig{
		ID:            1,
		OwnerID:       10,
		StudentID:     10,
		SubtopicIDs:   entity.UintArray{5},
		QuestionCount: 10,
		TimeLimitMin:  30,
		TestType:      entity.TestTypeMixed,
	}
	owner := &entity.User{ID: 10, Role: entity.RoleStudent}

	mockConfigRepo.On("GetByID", uint(1)).Return(original, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(owner, nil)
	mockConfigRepo.On("Create", mock.MatchedBy(func(c *entity.TestConfig) bool {
		// Новая версия: ID еще не присвоен, параметры обновлены
		return c.ID == 0 && c.QuestionCount == 20 && c.StudentID == 10
	})).Return(nil)

	svc := NewConfigService(mockConfigRepo, mockUserRepo)

	input := validConfigInput()
	input.QuestionCount = 20

	// Act
	revised, err := svc.ReviseConfig(1, 10, input)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 20, revised.QuestionCount)
	assert.Equal(t, 10, original.QuestionCount, "Оригинальная версия не изменяется")
	mockConfigRepo.AssertExpectations(t)
}

func TestConfigService_GetConfig_NotFound(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	mockConfigRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := NewConfigService(mockConfigRepo, new(MockUserRepository))

	// Act
	config, err := svc.GetConfig(99, 10)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, config)
}
