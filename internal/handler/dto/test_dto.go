package dto

import (
	"time"

	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// ConfigResponse представляет конфигурацию теста в формате для ответа клиенту
type ConfigResponse struct {
	ID               uint      `json:"id"`
	OwnerID          uint      `json:"owner_id"`
	StudentID        uint      `json:"student_id"`
	TopicIDs         []uint    `json:"topic_ids"`
	SubtopicIDs      []uint    `json:"subtopic_ids"`
	DifficultyLevels []int     `json:"difficulty_levels"`
	QuestionCount    int       `json:"question_count"`
	TimeLimitMin     int       `json:"time_limit_min"`
	TestType         string    `json:"test_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// TestQuestionResponse представляет вопрос теста в формате для ответа клиенту.
// Правильный ответ намеренно отсутствует: клиент никогда его не видит.
type TestQuestionResponse struct {
	SeqNum     int      `json:"seq_num"`
	QuestionID uint     `json:"question_id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
}

// TestResponse представляет сгенерированный тест в формате для ответа клиенту
type TestResponse struct {
	ID           uint                   `json:"id"`
	PublicID     string                 `json:"public_id"`
	TestConfigID uint                   `json:"test_config_id"`
	UserID       uint                   `json:"user_id"`
	TimeLimitMin int                    `json:"time_limit_min"`
	AttemptCount int64                  `json:"attempts_count"`
	Questions    []TestQuestionResponse `json:"questions,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// AttemptResponse представляет проверенную попытку в формате для ответа клиенту
type AttemptResponse struct {
	ID              uint      `json:"id"`
	GeneratedTestID uint      `json:"generated_test_id"`
	UserID          uint      `json:"user_id"`
	Score           float64   `json:"score"`
	CorrectAnswers  int       `json:"correct_answers"`
	TotalQuestions  int       `json:"total_questions"`
	TimeSpentSec    int       `json:"time_spent_sec"`
	CompletedAt     time.Time `json:"completed_at"`
}

// PaginatedConfigResponse представляет пагинированный список конфигураций
type PaginatedConfigResponse struct {
	Configs []*ConfigResponse `json:"configs"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// PaginatedAttemptResponse представляет пагинированный список попыток
type PaginatedAttemptResponse struct {
	Attempts []*AttemptResponse `json:"attempts"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PerPage  int                `json:"per_page"`
}

// NewConfigResponse создает DTO для конфигурации
func NewConfigResponse(config *entity.TestConfig) *ConfigResponse {
	if config == nil {
		return nil
	}
	return &ConfigResponse{
		ID:               config.ID,
		OwnerID:          config.OwnerID,
		StudentID:        config.StudentID,
		TopicIDs:         config.TopicIDs,
		SubtopicIDs:      config.SubtopicIDs,
		DifficultyLevels: config.DifficultyLevels,
		QuestionCount:    config.QuestionCount,
		TimeLimitMin:     config.TimeLimitMin,
		TestType:         config.TestType,
		CreatedAt:        config.CreatedAt,
	}
}

// NewTestResponse создает DTO для сгенерированного теста.
// questions содержит тексты вопросов по их ID (снапшот хранит только ссылки).
func NewTestResponse(test *entity.GeneratedTest, questions map[uint]entity.Question) *TestResponse {
	if test == nil {
		return nil
	}

	questionsDTO := make([]TestQuestionResponse, 0, len(test.Questions))
	for _, tq := range test.Questions {
		item := TestQuestionResponse{
			SeqNum:     tq.SeqNum,
			QuestionID: tq.QuestionID,
		}
		// Вопрос мог быть удален из банка после генерации:
		// позиция остается в снапшоте, текст недоступен
		if q, ok := questions[tq.QuestionID]; ok {
			item.Text = q.Text
			item.Options = q.Options
			item.Difficulty = q.Difficulty
		}
		questionsDTO = append(questionsDTO, item)
	}

	return &TestResponse{
		ID:           test.ID,
		PublicID:     test.PublicID,
		TestConfigID: test.TestConfigID,
		UserID:       test.UserID,
		TimeLimitMin: test.TimeLimitMin,
		Questions:    questionsDTO,
		CreatedAt:    test.CreatedAt,
	}
}

// NewAttemptResponse создает DTO для попытки
func NewAttemptResponse(attempt *entity.Attempt) *AttemptResponse {
	if attempt == nil {
		return nil
	}
	return &AttemptResponse{
		ID:              attempt.ID,
		GeneratedTestID: attempt.GeneratedTestID,
		UserID:          attempt.UserID,
		Score:           attempt.Score,
		CorrectAnswers:  attempt.CorrectAnswers,
		TotalQuestions:  attempt.TotalQuestions,
		TimeSpentSec:    attempt.TimeSpentSec,
		CompletedAt:     attempt.CompletedAt,
	}
}

// NewPaginatedConfigResponse создает DTO для пагинированного списка конфигураций
func NewPaginatedConfigResponse(configs []entity.TestConfig, total int64, page, perPage int) *PaginatedConfigResponse {
	list := make([]*ConfigResponse, len(configs))
	for i := range configs {
		list[i] = NewConfigResponse(&configs[i])
	}
	return &PaginatedConfigResponse{
		Configs: list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// NewListAttemptResponse создает слайс DTO для списка попыток
func NewListAttemptResponse(attempts []entity.Attempt) []*AttemptResponse {
	list := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		list[i] = NewAttemptResponse(&attempts[i])
	}
	return list
}

// NewPaginatedAttemptResponse создает DTO для пагинированного списка попыток
func NewPaginatedAttemptResponse(attempts []entity.Attempt, total int64, page, perPage int) *PaginatedAttemptResponse {
	return &PaginatedAttemptResponse{
		Attempts: NewListAttemptResponse(attempts),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
}
