package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
)

// ContentRepo реализует repository.ContentRepository
type ContentRepo struct {
	db *gorm.DB
}

// NewContentRepo создает новый репозиторий иерархии контента
func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// CreateExam создает новый экзамен
func (r *ContentRepo) CreateExam(exam *entity.Exam) error {
	return r.db.Create(exam).Error
}

// GetExamByID возвращает экзамен с предметами
func (r *ContentRepo) GetExamByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Preload("Subjects").First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// ListExams возвращает все экзамены
func (r *ContentRepo) ListExams() ([]entity.Exam, error) {
	var exams []entity.Exam
	err := r.db.Order("id").Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

// UpdateExam обновляет экзамен
func (r *ContentRepo) UpdateExam(exam *entity.Exam) error {
	return r.db.Save(exam).Error
}

// DeleteExam удаляет экзамен
func (r *ContentRepo) DeleteExam(id uint) error {
	return r.db.Delete(&entity.Exam{}, id).Error
}

// CreateSubject создает новый предмет
func (r *ContentRepo) CreateSubject(subject *entity.Subject) error {
	return r.db.Create(subject).Error
}

// GetSubjectByID возвращает предмет с темами
func (r *ContentRepo) GetSubjectByID(id uint) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.Preload("Topics").First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// ListSubjectsByExam возвращает предметы экзамена
func (r *ContentRepo) ListSubjectsByExam(examID uint) ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.Where("exam_id = ?", examID).Order("id").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// CreateTopic создает новую тему
func (r *ContentRepo) CreateTopic(topic *entity.Topic) error {
	return r.db.Create(topic).Error
}

// GetTopicByID возвращает тему с подтемами
func (r *ContentRepo) GetTopicByID(id uint) (*entity.Topic, error) {
	var topic entity.Topic
	err := r.db.Preload("Subtopics").First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// ListTopicsBySubject возвращает темы предмета
func (r *ContentRepo) ListTopicsBySubject(subjectID uint) ([]entity.Topic, error) {
	var topics []entity.Topic
	err := r.db.Where("subject_id = ?", subjectID).Order("id").Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateSubtopic создает новую подтему
func (r *ContentRepo) CreateSubtopic(subtopic *entity.Subtopic) error {
	return r.db.Create(subtopic).Error
}

// GetSubtopicByID возвращает подтему по ID
func (r *ContentRepo) GetSubtopicByID(id uint) (*entity.Subtopic, error) {
	var subtopic entity.Subtopic
	err := r.db.First(&subtopic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subtopic, nil
}

// ListSubtopicsByTopic возвращает подтемы темы
func (r *ContentRepo) ListSubtopicsByTopic(topicID uint) ([]entity.Subtopic, error) {
	var subtopics []entity.Subtopic
	err := r.db.Where("topic_id = ?", topicID).Order("id").Find(&subtopics).Error
	if err != nil {
		return nil, err
	}
	return subtopics, nil
}

// SubtopicIDsByTopics разворачивает темы в ID всех их подтем
func (r *ContentRepo) SubtopicIDsByTopics(topicIDs []uint) ([]uint, error) {
	if len(topicIDs) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	err := r.db.Model(&entity.Subtopic{}).
		Where("topic_id IN ?", topicIDs).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
