package entity

import (
	"time"
)

// Topic представляет тему внутри предмета
type Topic struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	SubjectID uint       `gorm:"not null;index" json:"subject_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Subtopics []Subtopic `gorm:"foreignKey:TopicID" json:"subtopics,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Topic) TableName() string {
	return "topics"
}

// Subtopic представляет подтему - минимальную единицу классификации вопросов
type Subtopic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Subtopic) TableName() string {
	return "subtopics"
}
