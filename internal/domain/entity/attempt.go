package entity

import (
	"strconv"
	"time"
)

// Attempt представляет одну проверенную попытку прохождения сгенерированного теста.
// Создается ровно один раз на сабмит; повторные сабмиты по тому же тесту
// создают независимые попытки (одноразовость не навязывается).
type Attempt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GeneratedTestID uint      `gorm:"not null;index" json:"generated_test_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Answers         AnswerMap `gorm:"type:jsonb;not null" json:"answers"`
	Score           float64   `gorm:"not null;default:0" json:"score"` // Доля правильных ответов, [0,1]
	CorrectAnswers  int       `gorm:"not null;default:0" json:"correct_answers"`
	TotalQuestions  int       `gorm:"not null;default:0" json:"total_questions"`
	TimeSpentSec    int       `gorm:"not null;default:0" json:"time_spent_sec"`
	CompletedAt     time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}

// AnswerFor возвращает ответ на вопрос по его ID ("" - вопрос без ответа)
func (a *Attempt) AnswerFor(questionID uint) string {
	return a.Answers[strconv.FormatUint(uint64(questionID), 10)]
}
