package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsCorrect_ExactMatch(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            1,
		Text:          "Сколько будет 7 × 8?",
		Options:       StringArray{"54", "56", "58", "64"},
		CorrectAnswer: "56",
	}

	// Act & Assert
	assert.True(t, question.IsCorrect("56"), "IsCorrect должен вернуть true для точного совпадения")
}

func TestQuestion_IsCorrect_CaseSensitive(t *testing.T) {
	// Arrange
	question := &Question{
		CorrectAnswer: "B",
	}

	// Act & Assert: сравнение без нормализации
	assert.False(t, question.IsCorrect("b"), "Сравнение должно быть чувствительно к регистру")
	assert.False(t, question.IsCorrect(" B"), "Пробелы не должны обрезаться")
	assert.False(t, question.IsCorrect(""), "Пустой ответ - несовпадение")
	assert.True(t, question.IsCorrect("B"))
}

func TestQuestion_IsActiveAt(t *testing.T) {
	// Arrange
	now := time.Now()
	from := now.Add(-24 * time.Hour)
	until := now.Add(24 * time.Hour)

	// Act & Assert: открытое окно
	open := &Question{}
	assert.True(t, open.IsActiveAt(now), "Вопрос без окна действия активен всегда")

	// Окно задано полностью
	windowed := &Question{ValidFrom: &from, ValidUntil: &until}
	assert.True(t, windowed.IsActiveAt(now))
	assert.False(t, windowed.IsActiveAt(now.Add(-48*time.Hour)), "До начала окна вопрос неактивен")
	assert.False(t, windowed.IsActiveAt(now.Add(48*time.Hour)), "После конца окна вопрос неактивен")

	// Только нижняя граница
	fromOnly := &Question{ValidFrom: &from}
	assert.True(t, fromOnly.IsActiveAt(now))
	assert.False(t, fromOnly.IsActiveAt(now.Add(-48*time.Hour)))
}

func TestTestConfig_HasFilters(t *testing.T) {
	// Arrange & Act & Assert
	empty := &TestConfig{}
	assert.False(t, empty.HasFilters(), "Конфигурация без фильтров невалидна")

	withTopics := &TestConfig{TopicIDs: UintArray{1}}
	assert.True(t, withTopics.HasFilters())

	withSubtopics := &TestConfig{SubtopicIDs: UintArray{5, 6}}
	assert.True(t, withSubtopics.HasFilters())
}

func TestAttempt_AnswerFor(t *testing.T) {
	// Arrange
	attempt := &Attempt{
		Answers: AnswerMap{"10": "B", "11": "C"},
	}

	// Act & Assert
	assert.Equal(t, "B", attempt.AnswerFor(10))
	assert.Equal(t, "C", attempt.AnswerFor(11))
	assert.Equal(t, "", attempt.AnswerFor(12), "Вопрос без ответа возвращает пустую строку")
}
