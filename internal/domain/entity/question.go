package entity

import (
	"time"
)

// Question представляет вопрос банка заданий
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	SubjectID     uint        `gorm:"not null;index" json:"subject_id"`
	TopicID       uint        `gorm:"not null;index" json:"topic_id"`
	SubtopicID    uint        `gorm:"not null;index" json:"subtopic_id"`
	Text          string      `gorm:"size:2000;not null" json:"text"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string      `gorm:"size:500;not null" json:"-"` // Скрыто от клиента
	Difficulty    int         `gorm:"not null;default:1;index" json:"difficulty"` // 1..5
	ValidFrom     *time.Time  `json:"valid_from,omitempty"`                       // Окно действия вопроса (опционально)
	ValidUntil    *time.Time  `json:"valid_until,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет ответ на точное совпадение.
// Сравнение чувствительно к регистру, без нормализации.
func (q *Question) IsCorrect(submitted string) bool {
	return submitted == q.CorrectAnswer
}

// IsActiveAt проверяет, попадает ли момент времени в окно действия вопроса.
// Пустые границы трактуются как открытые.
func (q *Question) IsActiveAt(t time.Time) bool {
	if q.ValidFrom != nil && t.Before(*q.ValidFrom) {
		return false
	}
	if q.ValidUntil != nil && t.After(*q.ValidUntil) {
		return false
	}
	return true
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
