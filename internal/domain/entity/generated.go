package entity

import (
	"time"
)

// GeneratedTest представляет сгенерированный тест - неизменяемый снапшот
// выбранных вопросов. После создания никогда не мутирует: повторный показ
// и повторная проверка всегда видят один и тот же список вопросов, даже
// если банк вопросов позже изменился.
type GeneratedTest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PublicID     string         `gorm:"size:36;not null;uniqueIndex" json:"public_id"` // UUID для внешних ссылок
	TestConfigID uint           `gorm:"not null;index" json:"test_config_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"` // Студент, для которого сгенерирован тест
	TimeLimitMin int            `gorm:"not null" json:"time_limit_min"`
	Questions    []TestQuestion `gorm:"foreignKey:GeneratedTestID" json:"questions,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (GeneratedTest) TableName() string {
	return "generated_tests"
}

// QuestionIDs возвращает ID вопросов в порядке следования
func (t *GeneratedTest) QuestionIDs() []uint {
	ids := make([]uint, len(t.Questions))
	for i, q := range t.Questions {
		ids[i] = q.QuestionID
	}
	return ids
}

// TestQuestion представляет позицию вопроса в сгенерированном тесте.
// SeqNum фиксируется при генерации (1..N) и определяет порядок показа.
type TestQuestion struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	GeneratedTestID uint `gorm:"not null;index" json:"generated_test_id"`
	QuestionID      uint `gorm:"not null;index" json:"question_id"`
	SeqNum          int  `gorm:"not null" json:"seq_num"`
}

// TableName определяет имя таблицы для GORM
func (TestQuestion) TableName() string {
	return "test_questions"
}
