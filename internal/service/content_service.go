package service

import (
	"fmt"
	"log"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ContentService предоставляет методы для работы с иерархией контента
// и банком вопросов. Запись доступна только контент-администраторам
// (проверяется middleware), чтение - всем аутентифицированным.
type ContentService struct {
	contentRepo  repository.ContentRepository
	questionRepo repository.QuestionRepository
}

// NewContentService создает новый сервис контента
func NewContentService(contentRepo repository.ContentRepository, questionRepo repository.QuestionRepository) *ContentService {
	return &ContentService{
		contentRepo:  contentRepo,
		questionRepo: questionRepo,
	}
}

// CreateExam создает новый экзамен
func (s *ContentService) CreateExam(name, description string) (*entity.Exam, error) {
	exam := &entity.Exam{Name: name, Description: description}
	if err := s.contentRepo.CreateExam(exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	return exam, nil
}

// GetExam возвращает экзамен с предметами
func (s *ContentService) GetExam(id uint) (*entity.Exam, error) {
	return s.contentRepo.GetExamByID(id)
}

// ListExams возвращает все экзамены
func (s *ContentService) ListExams() ([]entity.Exam, error) {
	return s.contentRepo.ListExams()
}

// UpdateExam обновляет название и описание экзамена
func (s *ContentService) UpdateExam(id uint, name, description string) (*entity.Exam, error) {
	exam, err := s.contentRepo.GetExamByID(id)
	if err != nil {
		return nil, err
	}
	exam.Name = name
	exam.Description = description
	if err := s.contentRepo.UpdateExam(exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	return exam, nil
}

// DeleteExam удаляет экзамен
func (s *ContentService) DeleteExam(id uint) error {
	if _, err := s.contentRepo.GetExamByID(id); err != nil {
		return err
	}
	return s.contentRepo.DeleteExam(id)
}

// CreateSubject создает предмет внутри экзамена
func (s *ContentService) CreateSubject(examID uint, name string) (*entity.Subject, error) {
	if _, err := s.contentRepo.GetExamByID(examID); err != nil {
		return nil, err
	}
	subject := &entity.Subject{ExamID: examID, Name: name}
	if err := s.contentRepo.CreateSubject(subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

// ListSubjects возвращает предметы экзамена
func (s *ContentService) ListSubjects(examID uint) ([]entity.Subject, error) {
	return s.contentRepo.ListSubjectsByExam(examID)
}

// CreateTopic создает тему внутри предмета
func (s *ContentService) CreateTopic(subjectID uint, name string) (*entity.Topic, error) {
	if _, err := s.contentRepo.GetSubjectByID(subjectID); err != nil {
		return nil, err
	}
	topic := &entity.Topic{SubjectID: subjectID, Name: name}
	if err := s.contentRepo.CreateTopic(topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	return topic, nil
}

// ListTopics возвращает темы предмета
func (s *ContentService) ListTopics(subjectID uint) ([]entity.Topic, error) {
	return s.contentRepo.ListTopicsBySubject(subjectID)
}

// CreateSubtopic создает подтему внутри темы
func (s *ContentService) CreateSubtopic(topicID uint, name string) (*entity.Subtopic, error) {
	if _, err := s.contentRepo.GetTopicByID(topicID); err != nil {
		return nil, err
	}
	subtopic := &entity.Subtopic{TopicID: topicID, Name: name}
	if err := s.contentRepo.CreateSubtopic(subtopic); err != nil {
		return nil, fmt.Errorf("failed to create subtopic: %w", err)
	}
	return subtopic, nil
}

// ListSubtopics возвращает подтемы темы
func (s *ContentService) ListSubtopics(topicID uint) ([]entity.Subtopic, error) {
	return s.contentRepo.ListSubtopicsByTopic(topicID)
}

// CreateQuestion создает вопрос после проверки ссылок и инвариантов
func (s *ContentService) CreateQuestion(question *entity.Question) error {
	if err := s.validateQuestion(question); err != nil {
		return err
	}
	if err := s.questionRepo.Create(question); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// BulkCreateQuestions сохраняет пакет вопросов (используется Excel-импортом)
func (s *ContentService) BulkCreateQuestions(questions []entity.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions provided", apperrors.ErrValidation)
	}
	for i := range questions {
		if err := s.validateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("question #%d: %w", i+1, err)
		}
	}
	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Printf("[ContentService] Ошибка при bulk-создании вопросов: %v", err)
		return fmt.Errorf("failed to create questions: %w", err)
	}
	log.Printf("[ContentService] Bulk import: добавлено %d вопросов", len(questions))
	return nil
}

// GetQuestion возвращает вопрос по ID
func (s *ContentService) GetQuestion(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// ListQuestions возвращает вопросы с пагинацией
func (s *ContentService) ListQuestions(page, pageSize int) ([]entity.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return s.questionRepo.List(pageSize, offset)
}

// ListAllQuestions возвращает весь банк вопросов без пагинации (для экспорта)
func (s *ContentService) ListAllQuestions() ([]entity.Question, error) {
	return s.questionRepo.ListAll()
}

// UpdateQuestion обновляет вопрос банка.
// Снапшоты сгенерированных тестов хранят ID, а не копию вопроса, поэтому
// правка текста видна и в старых тестах - это осознанное поведение банка.
func (s *ContentService) UpdateQuestion(question *entity.Question) error {
	if _, err := s.questionRepo.GetByID(question.ID); err != nil {
		return err
	}
	if err := s.validateQuestion(question); err != nil {
		return err
	}
	return s.questionRepo.Update(question)
}

// DeleteQuestion удаляет вопрос. Сгенерированные тесты, ссылающиеся на него,
// остаются валидными: при проверке удаленный вопрос считается промахом.
func (s *ContentService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.GetByID(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// validateQuestion проверяет инварианты вопроса
func (s *ContentService) validateQuestion(q *entity.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question needs at least 2 options", apperrors.ErrValidation)
	}
	if q.Difficulty < 1 || q.Difficulty > 5 {
		return fmt.Errorf("%w: invalid difficulty %d", apperrors.ErrValidation, q.Difficulty)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: correct answer is required", apperrors.ErrValidation)
	}
	// Правильный ответ обязан быть одним из вариантов
	found := false
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: correct answer must be one of the options", apperrors.ErrValidation)
	}
	if q.ValidFrom != nil && q.ValidUntil != nil && q.ValidUntil.Before(*q.ValidFrom) {
		return fmt.Errorf("%w: validity window end precedes start", apperrors.ErrValidation)
	}
	if _, err := s.contentRepo.GetSubtopicByID(q.SubtopicID); err != nil {
		return fmt.Errorf("subtopic %d: %w", q.SubtopicID, err)
	}
	return nil
}
