package repository

import (
	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// ContentRepository определяет методы для работы с иерархией контента
// (экзамены → предметы → темы → подтемы)
type ContentRepository interface {
	CreateExam(exam *entity.Exam) error
	GetExamByID(id uint) (*entity.Exam, error)
	ListExams() ([]entity.Exam, error)
	UpdateExam(exam *entity.Exam) error
	DeleteExam(id uint) error

	CreateSubject(subject *entity.Subject) error
	GetSubjectByID(id uint) (*entity.Subject, error)
	ListSubjectsByExam(examID uint) ([]entity.Subject, error)

	CreateTopic(topic *entity.Topic) error
	GetTopicByID(id uint) (*entity.Topic, error)
	ListTopicsBySubject(subjectID uint) ([]entity.Topic, error)

	CreateSubtopic(subtopic *entity.Subtopic) error
	GetSubtopicByID(id uint) (*entity.Subtopic, error)
	ListSubtopicsByTopic(topicID uint) ([]entity.Subtopic, error)

	// SubtopicIDsByTopics разворачивает список тем в ID всех их подтем.
	// Используется генератором для семантики "вся тема целиком".
	SubtopicIDsByTopics(topicIDs []uint) ([]uint, error)
}
