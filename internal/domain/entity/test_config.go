package entity

import (
	"time"
)

// Типы генерируемых тестов
const (
	TestTypeTopicWise        = "topic_wise"
	TestTypeMixed            = "mixed"
	TestTypeMentalArithmetic = "mental_arithmetic"
)

// IsValidTestType проверяет, что строка является допустимым типом теста
func IsValidTestType(testType string) bool {
	switch testType {
	case TestTypeTopicWise, TestTypeMixed, TestTypeMentalArithmetic:
		return true
	}
	return false
}

// Пределы параметров конфигурации
const (
	MinQuestionCount = 1
	MaxQuestionCount = 100
	MinTimeLimitMin  = 5
	MaxTimeLimitMin  = 180
)

// TestConfig представляет конфигурацию генерации теста.
// Записи append-only: изменение конфигурации создает новую строку (новую версию),
// чтобы сгенерированные тесты всегда ссылались на неизменные параметры.
type TestConfig struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OwnerID          uint      `gorm:"not null;index" json:"owner_id"`   // Кто создал конфигурацию
	StudentID        uint      `gorm:"not null;index" json:"student_id"` // Для кого тест (совпадает с OwnerID, если студент создал сам)
	TopicIDs         UintArray `gorm:"type:jsonb;not null" json:"topic_ids"`    // Темы с семантикой "все подтемы"
	SubtopicIDs      UintArray `gorm:"type:jsonb;not null" json:"subtopic_ids"` // Явно выбранные подтемы
	DifficultyLevels IntArray  `gorm:"type:jsonb;not null" json:"difficulty_levels"`
	QuestionCount    int       `gorm:"not null" json:"question_count"`
	TimeLimitMin     int       `gorm:"not null" json:"time_limit_min"`
	TestType         string    `gorm:"size:30;not null;default:'mixed'" json:"test_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestConfig) TableName() string {
	return "test_configs"
}

// HasFilters проверяет, задан ли хотя бы один фильтр по темам или подтемам
func (c *TestConfig) HasFilters() bool {
	return len(c.TopicIDs) > 0 || len(c.SubtopicIDs) > 0
}
