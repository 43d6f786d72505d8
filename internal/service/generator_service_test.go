package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев для сервисных тестов.
// Определены здесь один раз и переиспользуются в scorer_service_test.go
// и config_service_test.go (один пакет).
// ============================================================================

// MockTestConfigRepository реализует repository.TestConfigRepository
type MockTestConfigRepository struct {
	mock.Mock
}

func (m *MockTestConfigRepository) Create(config *entity.TestConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockTestConfigRepository) GetByID(id uint) (*entity.TestConfig, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestConfig), args.Error(1)
}

func (m *MockTestConfigRepository) ListByOwner(ownerID uint, limit, offset int) ([]entity.TestConfig, int64, error) {
	args := m.Called(ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.TestConfig), args.Get(1).(int64), args.Error(2)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(limit, offset int) ([]entity.Question, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) ListAll() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByFilters(subtopicIDs []uint, difficulties []int, now time.Time) ([]entity.Question, error) {
	args := m.Called(subtopicIDs, difficulties, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByIDs(ids []uint) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// MockContentRepository реализует repository.ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreateExam(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockContentRepository) GetExamByID(id uint) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockContentRepository) ListExams() ([]entity.Exam, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Exam), args.Error(1)
}

func (m *MockContentRepository) UpdateExam(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockContentRepository) DeleteExam(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockContentRepository) CreateSubject(subject *entity.Subject) error {
	args := m.Called(subject)
	return args.Error(0)
}

func (m *MockContentRepository) GetSubjectByID(id uint) (*entity.Subject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockContentRepository) ListSubjectsByExam(examID uint) ([]entity.Subject, error) {
	args := m.Called(examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subject), args.Error(1)
}

func (m *MockContentRepository) CreateTopic(topic *entity.Topic) error {
	args := m.Called(topic)
	return args.Error(0)
}

func (m *MockContentRepository) GetTopicByID(id uint) (*entity.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Topic), args.Error(1)
}

func (m *MockContentRepository) ListTopicsBySubject(subjectID uint) ([]entity.Topic, error) {
	args := m.Called(subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Topic), args.Error(1)
}

func (m *MockContentRepository) CreateSubtopic(subtopic *entity.Subtopic) error {
	args := m.Called(subtopic)
	return args.Error(0)
}

func (m *MockContentRepository) GetSubtopicByID(id uint) (*entity.Subtopic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subtopic), args.Error(1)
}

func (m *MockContentRepository) ListSubtopicsByTopic(topicID uint) ([]entity.Subtopic, error) {
	args := m.Called(topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subtopic), args.Error(1)
}

func (m *MockContentRepository) SubtopicIDsByTopics(topicIDs []uint) ([]uint, error) {
	args := m.Called(topicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockGeneratedTestRepository реализует repository.GeneratedTestRepository
type MockGeneratedTestRepository struct {
	mock.Mock
}

func (m *MockGeneratedTestRepository) Create(test *entity.GeneratedTest) error {
	args := m.Called(test)
	return args.Error(0)
}

func (m *MockGeneratedTestRepository) GetByID(id uint) (*entity.GeneratedTest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GeneratedTest), args.Error(1)
}

func (m *MockGeneratedTestRepository) GetByPublicID(publicID string) (*entity.GeneratedTest, error) {
	args := m.Called(publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GeneratedTest), args.Error(1)
}

func (m *MockGeneratedTestRepository) ListByUser(userID uint, limit, offset int) ([]entity.GeneratedTest, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.GeneratedTest), args.Get(1).(int64), args.Error(2)
}

// MockAttemptRepository реализует repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(attempt *entity.Attempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(id uint) (*entity.Attempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByTest(generatedTestID uint) ([]entity.Attempt, error) {
	args := m.Called(generatedTestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(userID uint, limit, offset int) ([]entity.Attempt, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Attempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) CountByTest(generatedTestID uint) (int64, error) {
	args := m.Called(generatedTestID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateTestStats(userID uint, score float64) error {
	args := m.Called(userID, score)
	return args.Error(0)
}

func (m *MockUserRepository) ListByRole(role string, limit, offset int) ([]entity.User, error) {
	args := m.Called(role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// ============================================================================
// Хелперы
// ============================================================================

// createTestGeneratorService создает GeneratorService с фиксированным seed,
// чтобы выборка была воспроизводимой
func createTestGeneratorService(
	configRepo *MockTestConfigRepository,
	questionRepo *MockQuestionRepository,
	contentRepo *MockContentRepository,
	testRepo *MockGeneratedTestRepository,
	userRepo *MockUserRepository,
) *GeneratorService {
	return NewGeneratorService(
		configRepo, questionRepo, contentRepo, testRepo, userRepo,
		nil, // без кеша в юнит-тестах
		rand.New(rand.NewSource(42)),
	)
}

// makePool создает пул вопросов с последовательными ID от firstID
func makePool(firstID uint, count int, subtopicID uint, difficulty int) []entity.Question {
	pool := make([]entity.Question, count)
	for i := 0; i < count; i++ {
		pool[i] = entity.Question{
			ID:            firstID + uint(i),
			SubtopicID:    subtopicID,
			Text:          "Вопрос",
			Options:       entity.StringArray{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Difficulty:    difficulty,
		}
	}
	return pool
}

// ============================================================================
// Тесты для GeneratorService
// ============================================================================

func TestGeneratorService_Generate_Success(t *testing.T) {
	// Arrange: конфигурация на 3 вопроса, пул из 5 подходящих
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockContentRepo := new(MockContentRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	config := &entity.TestConfig{
		ID:               1,
		OwnerID:          10,
		StudentID:        10,
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{1, 2},
		QuestionCount:    3,
		TimeLimitMin:     30,
		TestType:         entity.TestTypeMixed,
	}
	pool := makePool(100, 5, 5, 1)

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockQuestionRepo.On("FindByFilters", []uint{5}, []int(config.DifficultyLevels), mock.AnythingOfType("time.Time")).Return(pool, nil)
	mockTestRepo.On("Create", mock.AnythingOfType("*entity.GeneratedTest")).Return(nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, mockContentRepo, mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(1, 10)

	// Assert
	require.NoError(t, err, "Генерация при достаточном пуле должна быть успешной")
	require.NotNil(t, test)
	assert.Len(t, test.Questions, 3, "Тест должен содержать ровно запрошенное количество вопросов")
	assert.NotEmpty(t, test.PublicID, "Тест должен получить публичный UUID")
	assert.Equal(t, uint(10), test.UserID)
	assert.Equal(t, uint(1), test.TestConfigID)

	// Без дубликатов, все из пула, seq_num последовательно с 1
	seen := make(map[uint]bool)
	for i, tq := range test.Questions {
		assert.False(t, seen[tq.QuestionID], "Вопрос %d встретился дважды", tq.QuestionID)
		seen[tq.QuestionID] = true
		assert.GreaterOrEqual(t, tq.QuestionID, uint(100), "Вопрос должен быть из пула")
		assert.Less(t, tq.QuestionID, uint(105), "Вопрос должен быть из пула")
		assert.Equal(t, i+1, tq.SeqNum, "SeqNum должен идти последовательно начиная с 1")
	}
	mockTestRepo.AssertExpectations(t)
}

func TestGeneratorService_Generate_InsufficientPool(t *testing.T) {
	// Arrange: запрошено 3, в пуле только 2
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockContentRepo := new(MockContentRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	config := &entity.TestConfig{
		ID:               1,
		OwnerID:          10,
		StudentID:        10,
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{1, 2},
		QuestionCount:    3,
		TestType:         entity.TestTypeMixed,
	}
	pool := makePool(100, 2, 5, 1)

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockQuestionRepo.On("FindByFilters", []uint{5}, []int(config.DifficultyLevels), mock.AnythingOfType("time.Time")).Return(pool, nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, mockContentRepo, mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(1, 10)

	// Assert: ошибка и ничего не сохранено
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientPool), "Ошибка должна быть ErrInsufficientPool")
	assert.Nil(t, test)
	mockTestRepo.AssertNotCalled(t, "Create")
}

func TestGeneratorService_Generate_ConfigNotFound(t *testing.T) {
	// Arrange
	mockConfigRepo := new(MockTestConfigRepository)
	mockTestRepo := new(MockGeneratedTestRepository)

	mockConfigRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := createTestGeneratorService(mockConfigRepo, new(MockQuestionRepository), new(MockContentRepository), mockTestRepo, new(MockUserRepository))

	// Act
	test, err := svc.Generate(99, 10)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, test)
	mockTestRepo.AssertNotCalled(t, "Create")
}

func TestGeneratorService_Generate_TopicExpandsToSubtopics(t *testing.T) {
	// Arrange: тема 7 разворачивается в подтемы 5 и 6; подтема 5 также выбрана явно
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockContentRepo := new(MockContentRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	config := &entity.TestConfig{
		ID:               2,
		OwnerID:          10,
		StudentID:        10,
		TopicIDs:         entity.UintArray{7},
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{3},
		QuestionCount:    2,
		TestType:         entity.TestTypeTopicWise,
	}
	pool := makePool(200, 4, 6, 3)

	mockConfigRepo.On("GetByID", uint(2)).Return(config, nil)
	mockContentRepo.On("SubtopicIDsByTopics", []uint{7}).Return([]uint{5, 6}, nil)
	// Подтема 5 не должна дублироваться после разворачивания темы
	mockQuestionRepo.On("FindByFilters", []uint{5, 6}, []int{3}, mock.AnythingOfType("time.Time")).Return(pool, nil)
	mockTestRepo.On("Create", mock.AnythingOfType("*entity.GeneratedTest")).Return(nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, mockContentRepo, mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(2, 10)

	// Assert
	require.NoError(t, err)
	assert.Len(t, test.Questions, 2)
	mockContentRepo.AssertExpectations(t)
	mockQuestionRepo.AssertExpectations(t)
}

func TestGeneratorService_Generate_ForbiddenForStranger(t *testing.T) {
	// Arrange: запрашивает пользователь, не связанный с конфигурацией
	mockConfigRepo := new(MockTestConfigRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	config := &entity.TestConfig{
		ID:            1,
		OwnerID:       10,
		StudentID:     10,
		SubtopicIDs:   entity.UintArray{5},
		QuestionCount: 3,
		TestType:      entity.TestTypeMixed,
	}
	stranger := &entity.User{ID: 20, Role: entity.RoleStudent}

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockUserRepo.On("GetByID", uint(20)).Return(stranger, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(&entity.User{ID: 10, Role: entity.RoleStudent}, nil)

	svc := createTestGeneratorService(mockConfigRepo, new(MockQuestionRepository), new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(1, 20)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Nil(t, test)
	mockTestRepo.AssertNotCalled(t, "Create")
}

func TestGeneratorService_Generate_IndependentSnapshots(t *testing.T) {
	// Arrange: конфигурация переиспользуема - две генерации дают два независимых теста
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockTestRepo := new(MockGeneratedTestRepository)

	config := &entity.TestConfig{
		ID:               1,
		OwnerID:          10,
		StudentID:        10,
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{1},
		QuestionCount:    5,
		TestType:         entity.TestTypeMixed,
	}
	pool := makePool(100, 40, 5, 1)

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockQuestionRepo.On("FindByFilters", []uint{5}, []int{1}, mock.AnythingOfType("time.Time")).Return(pool, nil)
	mockTestRepo.On("Create", mock.AnythingOfType("*entity.GeneratedTest")).Return(nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, new(MockContentRepository), mockTestRepo, new(MockUserRepository))

	// Act
	first, err := svc.Generate(1, 10)
	require.NoError(t, err)
	second, err := svc.Generate(1, 10)
	require.NoError(t, err)

	// Assert: оба валидны и имеют разные публичные ID
	assert.Len(t, first.Questions, 5)
	assert.Len(t, second.Questions, 5)
	assert.NotEqual(t, first.PublicID, second.PublicID, "Каждая генерация создает независимый снапшот")
}

func TestGeneratorService_GetTest_Forbidden(t *testing.T) {
	// Arrange: чужой студент пытается открыть тест
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	test := &entity.GeneratedTest{ID: 1, UserID: 10}
	stranger := &entity.User{ID: 20, Role: entity.RoleStudent}
	owner := &entity.User{ID: 10, Role: entity.RoleStudent}

	mockTestRepo.On("GetByID", uint(1)).Return(test, nil)
	mockUserRepo.On("GetByID", uint(20)).Return(stranger, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(owner, nil)

	svc := createTestGeneratorService(new(MockTestConfigRepository), new(MockQuestionRepository), new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	got, err := svc.GetTest(1, 20)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Nil(t, got)
}

func TestGeneratorService_Generate_TutorForLinkedStudent(t *testing.T) {
	// Arrange: тьютор закреплен за студентом и генерирует тест по его конфигурации
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	tutorID := uint(30)
	config := &entity.TestConfig{
		ID:               1,
		OwnerID:          10,
		StudentID:        10,
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{1},
		QuestionCount:    3,
		TestType:         entity.TestTypeMixed,
	}
	tutor := &entity.User{ID: 30, Role: entity.RoleTutor}
	student := &entity.User{ID: 10, Role: entity.RoleStudent, TutorID: &tutorID}
	pool := makePool(100, 5, 5, 1)

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockUserRepo.On("GetByID", uint(30)).Return(tutor, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)
	mockQuestionRepo.On("FindByFilters", []uint{5}, []int{1}, mock.AnythingOfType("time.Time")).Return(pool, nil)
	mockTestRepo.On("Create", mock.AnythingOfType("*entity.GeneratedTest")).Return(nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(1, 30)

	// Assert: тьютору доступна генерация, тест закрепляется за студентом
	require.NoError(t, err, "Закрепленный тьютор должен иметь право генерировать")
	require.NotNil(t, test)
	assert.Equal(t, uint(10), test.UserID, "Тест принадлежит студенту, а не тьютору")
	mockTestRepo.AssertExpectations(t)
}

func TestGeneratorService_Generate_ParentByEmail(t *testing.T) {
	// Arrange: родитель совпадает по email, указанному у студента
	mockConfigRepo := new(MockTestConfigRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	config := &entity.TestConfig{
		ID:               1,
		OwnerID:          10,
		StudentID:        10,
		SubtopicIDs:      entity.UintArray{5},
		DifficultyLevels: entity.IntArray{1},
		QuestionCount:    2,
		TestType:         entity.TestTypeMixed,
	}
	parent := &entity.User{ID: 40, Role: entity.RoleParent, Email: "parent@example.com"}
	student := &entity.User{ID: 10, Role: entity.RoleStudent, ParentEmail: "parent@example.com"}
	pool := makePool(100, 4, 5, 1)

	mockConfigRepo.On("GetByID", uint(1)).Return(config, nil)
	mockUserRepo.On("GetByID", uint(40)).Return(parent, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)
	mockQuestionRepo.On("FindByFilters", []uint{5}, []int{1}, mock.AnythingOfType("time.Time")).Return(pool, nil)
	mockTestRepo.On("Create", mock.AnythingOfType("*entity.GeneratedTest")).Return(nil)

	svc := createTestGeneratorService(mockConfigRepo, mockQuestionRepo, new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	test, err := svc.Generate(1, 40)

	// Assert
	require.NoError(t, err, "Родитель с совпадающим email должен иметь право генерировать")
	assert.Equal(t, uint(10), test.UserID)
}

func TestGeneratorService_GetTestByPublicID(t *testing.T) {
	// Arrange: поиск по внешнему UUID из шаринг-ссылки
	mockQuestionRepo := new(MockQuestionRepository)
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	publicID := "0b5c9f2e-9df1-4c76-9d6a-1f6f1e6c2a11"
	test := &entity.GeneratedTest{
		ID:       7,
		PublicID: publicID,
		UserID:   10,
		Questions: []entity.TestQuestion{
			{GeneratedTestID: 7, QuestionID: 101, SeqNum: 1},
		},
	}

	mockTestRepo.On("GetByPublicID", publicID).Return(test, nil)
	mockTestRepo.On("GetByID", uint(7)).Return(test, nil)
	mockQuestionRepo.On("FindByIDs", []uint{101}).Return([]entity.Question{{ID: 101, Text: "Вопрос"}}, nil)

	svc := createTestGeneratorService(new(MockTestConfigRepository), mockQuestionRepo, new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	got, questions, err := svc.GetTestByPublicID(publicID, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
	assert.Contains(t, questions, uint(101))
}

func TestGeneratorService_GetTestByPublicID_NotFound(t *testing.T) {
	// Arrange
	mockTestRepo := new(MockGeneratedTestRepository)

	mockTestRepo.On("GetByPublicID", "missing").Return(nil, apperrors.ErrNotFound)

	svc := createTestGeneratorService(new(MockTestConfigRepository), new(MockQuestionRepository), new(MockContentRepository), mockTestRepo, new(MockUserRepository))

	// Act
	got, questions, err := svc.GetTestByPublicID("missing", 10)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, got)
	assert.Nil(t, questions)
}

func TestGeneratorService_GetTest_TutorOfStudentAllowed(t *testing.T) {
	// Arrange: тьютор закреплен за студентом
	mockTestRepo := new(MockGeneratedTestRepository)
	mockUserRepo := new(MockUserRepository)

	tutorID := uint(30)
	test := &entity.GeneratedTest{ID: 1, UserID: 10}
	tutor := &entity.User{ID: 30, Role: entity.RoleTutor}
	student := &entity.User{ID: 10, Role: entity.RoleStudent, TutorID: &tutorID}

	mockTestRepo.On("GetByID", uint(1)).Return(test, nil)
	mockUserRepo.On("GetByID", uint(30)).Return(tutor, nil)
	mockUserRepo.On("GetByID", uint(10)).Return(student, nil)

	svc := createTestGeneratorService(new(MockTestConfigRepository), new(MockQuestionRepository), new(MockContentRepository), mockTestRepo, mockUserRepo)

	// Act
	got, err := svc.GetTest(1, 30)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
}
