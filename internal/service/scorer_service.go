package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ScorerService проверяет сабмиты по сгенерированным тестам.
// Каждый сабмит создает независимую попытку; одноразовость теста
// намеренно не навязывается.
type ScorerService struct {
	testRepo     repository.GeneratedTestRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	userRepo     repository.UserRepository
	emailService EmailService
}

// NewScorerService создает новый сервис проверки попыток
func NewScorerService(
	testRepo repository.GeneratedTestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
) *ScorerService {
	return &ScorerService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Score проверяет ответы по замороженному снапшоту теста и сохраняет попытку.
// Снапшот авторитетен: фильтры конфигурации не перечитываются, а вопрос,
// удаленный из банка после генерации, считается автоматическим промахом.
func (s *ScorerService) Score(testID, userID uint, answers map[uint]string, timeSpentSec int) (*entity.Attempt, error) {
	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	if test.UserID != userID {
		requester, err := s.userRepo.GetByID(userID)
		if err != nil {
			return nil, err
		}
		if !requester.IsAdmin() {
			return nil, fmt.Errorf("%w: test %d belongs to another user", apperrors.ErrForbidden, testID)
		}
	}

	if timeSpentSec < 0 {
		return nil, fmt.Errorf("%w: time_spent_sec cannot be negative", apperrors.ErrValidation)
	}

	// Резолвим вопросы снапшота; удаленные просто не вернутся
	questions, err := s.questionRepo.FindByIDs(test.QuestionIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot questions: %w", err)
	}
	byID := make(map[uint]*entity.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	total := len(test.Questions)
	correct := 0
	answerMap := make(entity.AnswerMap, len(answers))
	for _, tq := range test.Questions {
		submitted, answered := answers[tq.QuestionID]
		if answered {
			answerMap[strconv.FormatUint(uint64(tq.QuestionID), 10)] = submitted
		}

		question, exists := byID[tq.QuestionID]
		if !exists {
			// Вопрос удален из банка после генерации - автоматический промах
			continue
		}
		if answered && question.IsCorrect(submitted) {
			correct++
		}
	}

	// Нормализованная оценка: доля правильных ответов ∈ [0,1]
	var score float64
	if total > 0 {
		score = float64(correct) / float64(total)
	}

	attempt := &entity.Attempt{
		GeneratedTestID: test.ID,
		UserID:          test.UserID,
		Answers:         answerMap,
		Score:           score,
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		TimeSpentSec:    timeSpentSec,
		CompletedAt:     time.Now(),
	}

	if err := s.attemptRepo.Create(attempt); err != nil {
		log.Printf("[ScorerService] Ошибка сохранения попытки по тесту ID=%d: %v", testID, err)
		return nil, fmt.Errorf("failed to persist attempt: %w", err)
	}

	// Обновляем агрегаты студента; ошибка не фатальна для сабмита
	if err := s.userRepo.UpdateTestStats(test.UserID, score); err != nil {
		log.Printf("[ScorerService] Не удалось обновить статистику пользователя %d: %v", test.UserID, err)
	}

	s.notifyParent(test.UserID, attempt)

	return attempt, nil
}

// ListAttemptsByTest возвращает все попытки по тесту с проверкой доступа
func (s *ScorerService) ListAttemptsByTest(testID, requesterID uint) ([]entity.Attempt, error) {
	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}
	if test.UserID != requesterID {
		requester, err := s.userRepo.GetByID(requesterID)
		if err != nil {
			return nil, err
		}
		student, err := s.userRepo.GetByID(test.UserID)
		if err != nil {
			return nil, err
		}
		if !requester.CanActFor(student) &&
			!(requester.Role == entity.RoleParent && student.ParentEmail != "" && student.ParentEmail == requester.Email) {
			return nil, fmt.Errorf("%w: attempts of test %d belong to another user", apperrors.ErrForbidden, testID)
		}
	}
	return s.attemptRepo.ListByTest(testID)
}

// CountAttemptsByTest возвращает число попыток по тесту.
// Проверка доступа лежит на вызывающем: метод используется только
// для обогащения уже авторизованных ответов.
func (s *ScorerService) CountAttemptsByTest(testID uint) (int64, error) {
	return s.attemptRepo.CountByTest(testID)
}

// ListAttemptsByUser возвращает историю попыток пользователя с пагинацией
func (s *ScorerService) ListAttemptsByUser(userID uint, page, pageSize int) ([]entity.Attempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.attemptRepo.ListByUser(userID, pageSize, offset)
}

// notifyParent отправляет родителю письмо с результатом, если у студента
// указан родительский email. Отправка fire-and-forget: сабмит не ждет почту.
func (s *ScorerService) notifyParent(studentID uint, attempt *entity.Attempt) {
	if s.emailService == nil {
		return
	}
	student, err := s.userRepo.GetByID(studentID)
	if err != nil || student.ParentEmail == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendAttemptResult(ctx, student.ParentEmail, student.Username, attempt); err != nil {
			log.Printf("[ScorerService] Не удалось отправить уведомление родителю %s: %v", student.ParentEmail, err)
		}
	}()
}
