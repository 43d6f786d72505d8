package entity

import (
	"time"
)

// Exam представляет экзамен верхнего уровня (например, SAT, ЕНТ)
type Exam struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	Subjects    []Subject `gorm:"foreignKey:ExamID" json:"subjects,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}

// Subject представляет предмет внутри экзамена
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"not null;index" json:"exam_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Topics    []Topic   `gorm:"foreignKey:SubjectID" json:"topics,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}
