package service

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// Время жизни кеша снапшота. Снапшоты неизменяемы, TTL нужен только
// чтобы не держать в Redis тесты, которые никто больше не открывает.
const generatedTestCacheTTL = 30 * time.Minute

// GeneratorService резолвит конфигурацию в сгенерированный тест -
// неизменяемый снапшот случайно выбранных вопросов
type GeneratorService struct {
	configRepo   repository.TestConfigRepository
	questionRepo repository.QuestionRepository
	contentRepo  repository.ContentRepository
	testRepo     repository.GeneratedTestRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository

	// rand.Rand не потокобезопасен; генерации конкурентны, поэтому мьютекс.
	// Источник инжектируется, чтобы тесты могли зафиксировать seed.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGeneratorService создает новый сервис генерации тестов
func NewGeneratorService(
	configRepo repository.TestConfigRepository,
	questionRepo repository.QuestionRepository,
	contentRepo repository.ContentRepository,
	testRepo repository.GeneratedTestRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	rng *rand.Rand,
) *GeneratorService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GeneratorService{
		configRepo:   configRepo,
		questionRepo: questionRepo,
		contentRepo:  contentRepo,
		testRepo:     testRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		rng:          rng,
	}
}

// Generate резолвит конфигурацию в конкретный тест.
// Два вызова по одной конфигурации дают независимые тесты с разными
// наборами вопросов: конфигурация - переиспользуемый шаблон, а не билет.
func (s *GeneratorService) Generate(configID, requesterID uint) (*entity.GeneratedTest, error) {
	config, err := s.configRepo.GetByID(configID)
	if err != nil {
		return nil, err
	}

	if err := s.checkGenerateAccess(config, requesterID); err != nil {
		return nil, err
	}

	// 1. Разворачиваем фильтры в конкретный список подтем:
	// темы трактуются как "все подтемы темы"
	subtopicIDs, err := s.resolveSubtopics(config)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subtopic filters: %w", err)
	}
	if len(subtopicIDs) == 0 {
		return nil, fmt.Errorf("%w: configured topics contain no subtopics", apperrors.ErrInsufficientPool)
	}

	// 2. Собираем пул подходящих вопросов
	pool, err := s.questionRepo.FindByFilters(subtopicIDs, config.DifficultyLevels, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query question pool: %w", err)
	}

	// 3. Жесткое предусловие: пул не меньше запрошенного количества.
	// Частичное заполнение недопустимо - ломает семантику оценки и длительности.
	if len(pool) < config.QuestionCount {
		return nil, fmt.Errorf("%w: pool has %d questions, %d requested",
			apperrors.ErrInsufficientPool, len(pool), config.QuestionCount)
	}

	// 4. Равномерная выборка без повторений: Фишер-Йетс по всему пулу,
	// берем первые QuestionCount. Порядок выборки и есть порядок показа.
	selected := s.sample(pool, config.QuestionCount)

	testQuestions := make([]entity.TestQuestion, len(selected))
	for i, q := range selected {
		testQuestions[i] = entity.TestQuestion{
			QuestionID: q.ID,
			SeqNum:     i + 1,
		}
	}

	test := &entity.GeneratedTest{
		PublicID:     uuid.NewString(),
		TestConfigID: config.ID,
		UserID:       config.StudentID,
		TimeLimitMin: config.TimeLimitMin,
		Questions:    testQuestions,
	}

	// 5. Атомарная запись снапшота
	if err := s.testRepo.Create(test); err != nil {
		log.Printf("[GeneratorService] Ошибка сохранения снапшота для config=%d: %v", configID, err)
		return nil, fmt.Errorf("failed to persist generated test: %w", err)
	}

	log.Printf("[GeneratorService] Сгенерирован тест ID=%d (config=%d, вопросов=%d, пул=%d)",
		test.ID, configID, len(selected), len(pool))
	return test, nil
}

// GetTest возвращает снапшот теста по ID с проверкой доступа.
// Снапшоты неизменяемы, поэтому безопасно кешируются в Redis.
func (s *GeneratorService) GetTest(testID, requesterID uint) (*entity.GeneratedTest, error) {
	cacheKey := fmt.Sprintf("gentest:%d", testID)

	var cached entity.GeneratedTest
	if s.cacheRepo != nil {
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			if err := s.checkReadAccess(&cached, requesterID); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	}

	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReadAccess(test, requesterID); err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, test, generatedTestCacheTTL); err != nil {
			log.Printf("[GeneratorService] Не удалось закешировать тест ID=%d: %v", testID, err)
		}
	}
	return test, nil
}

// GetTestWithQuestions возвращает снапшот вместе с текстами вопросов.
// Вопросы, удаленные из банка после генерации, в карту не попадают:
// их позиции в снапшоте остаются, но содержимое недоступно.
func (s *GeneratorService) GetTestWithQuestions(testID, requesterID uint) (*entity.GeneratedTest, map[uint]entity.Question, error) {
	test, err := s.GetTest(testID, requesterID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.questionRepo.FindByIDs(test.QuestionIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load test questions: %w", err)
	}

	byID := make(map[uint]entity.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return test, byID, nil
}

// GetTestByPublicID возвращает снапшот по внешнему UUID.
// Публичный ID предназначен для шаринга ссылок (тьютор отправляет студенту),
// но доступ проверяется так же, как по внутреннему ID.
func (s *GeneratorService) GetTestByPublicID(publicID string, requesterID uint) (*entity.GeneratedTest, map[uint]entity.Question, error) {
	test, err := s.testRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, nil, err
	}
	return s.GetTestWithQuestions(test.ID, requesterID)
}

// ListTests возвращает тесты пользователя с пагинацией
func (s *GeneratorService) ListTests(userID uint, page, pageSize int) ([]entity.GeneratedTest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.testRepo.ListByUser(userID, pageSize, offset)
}

// resolveSubtopics собирает итоговый список ID подтем: явно выбранные подтемы
// плюс все подтемы выбранных тем, без дубликатов
func (s *GeneratorService) resolveSubtopics(config *entity.TestConfig) ([]uint, error) {
	seen := make(map[uint]struct{}, len(config.SubtopicIDs))
	result := make([]uint, 0, len(config.SubtopicIDs))

	for _, id := range config.SubtopicIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}

	if len(config.TopicIDs) > 0 {
		expanded, err := s.contentRepo.SubtopicIDsByTopics(config.TopicIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range expanded {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				result = append(result, id)
			}
		}
	}

	return result, nil
}

// sample выполняет выборку count вопросов без повторений.
// Классический Фишер-Йетс: равномерность не зависит от распределения пула.
func (s *GeneratorService) sample(pool []entity.Question, count int) []entity.Question {
	shuffled := make([]entity.Question, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	return shuffled[:count]
}

// checkGenerateAccess проверяет, что запрашивающий - владелец конфигурации,
// ее целевой студент, закрепленный тьютор, родитель или админ
func (s *GeneratorService) checkGenerateAccess(config *entity.TestConfig, requesterID uint) error {
	if config.OwnerID == requesterID || config.StudentID == requesterID {
		return nil
	}
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return err
	}
	if requester.IsAdmin() {
		return nil
	}

	student, err := s.userRepo.GetByID(config.StudentID)
	if err != nil {
		return err
	}
	if requester.CanActFor(student) {
		return nil
	}
	if requester.Role == entity.RoleParent && student.ParentEmail != "" && student.ParentEmail == requester.Email {
		return nil
	}
	return fmt.Errorf("%w: configuration %d belongs to another user", apperrors.ErrForbidden, config.ID)
}

// checkReadAccess проверяет доступ на чтение снапшота
func (s *GeneratorService) checkReadAccess(test *entity.GeneratedTest, requesterID uint) error {
	if test.UserID == requesterID {
		return nil
	}
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return err
	}
	if requester.IsAdmin() {
		return nil
	}

	student, err := s.userRepo.GetByID(test.UserID)
	if err != nil {
		return err
	}
	// Тьютор видит тесты закрепленных студентов, родитель - по совпадению email
	if requester.CanActFor(student) {
		return nil
	}
	if requester.Role == entity.RoleParent && student.ParentEmail != "" && student.ParentEmail == requester.Email {
		return nil
	}
	return fmt.Errorf("%w: test %d belongs to another user", apperrors.ErrForbidden, test.ID)
}
