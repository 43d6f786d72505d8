package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/examprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
	"github.com/yourusername/examprep-api/internal/service"
)

// ContentHandler обрабатывает запросы иерархии контента и банка вопросов
type ContentHandler struct {
	contentService *service.ContentService
}

// NewContentHandler создает новый обработчик контента
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateExamRequest представляет запрос на создание экзамена
type CreateExamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateExam обрабатывает запрос на создание экзамена
// POST /api/admin/exams
func (h *ContentHandler) CreateExam(c *gin.Context) {
	var req CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.contentService.CreateExam(req.Name, req.Description)
	if err != nil {
		h.handleContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// ListExams возвращает все экзамены
// GET /api/exams
func (h *ContentHandler) ListExams(c *gin.Context) {
	exams, err := h.contentService.ListExams()
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exams": exams, "total": len(exams)})
}

// GetExam возвращает экзамен с предметами
// GET /api/exams/:examId
func (h *ContentHandler) GetExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, err := h.contentService.GetExam(examID)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// UpdateExam обновляет название и описание экзамена
// PUT /api/admin/exams/:examId
func (h *ContentHandler) UpdateExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.contentService.UpdateExam(examID, req.Name, req.Description)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// DeleteExam удаляет экзамен
// DELETE /api/admin/exams/:examId
func (h *ContentHandler) DeleteExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.contentService.DeleteExam(examID); err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted successfully"})
}

// CreateNodeRequest представляет запрос на создание узла иерархии
type CreateNodeRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateSubject создает предмет внутри экзамена
// POST /api/admin/exams/:examId/subjects
func (h *ContentHandler) CreateSubject(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.contentService.CreateSubject(examID, req.Name)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// ListSubjects возвращает предметы экзамена
// GET /api/exams/:examId/subjects
func (h *ContentHandler) ListSubjects(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	subjects, err := h.contentService.ListSubjects(examID)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects, "total": len(subjects)})
}

// CreateTopic создает тему внутри предмета
// POST /api/admin/subjects/:subjectId/topics
func (h *ContentHandler) CreateTopic(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic, err := h.contentService.CreateTopic(subjectID, req.Name)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// ListTopics возвращает темы предмета
// GET /api/subjects/:subjectId/topics
func (h *ContentHandler) ListTopics(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	topics, err := h.contentService.ListTopics(subjectID)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics, "total": len(topics)})
}

// CreateSubtopic создает подтему внутри темы
// POST /api/admin/topics/:topicId/subtopics
func (h *ContentHandler) CreateSubtopic(c *gin.Context) {
	topicID := c.MustGet("topicID").(uint)

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtopic, err := h.contentService.CreateSubtopic(topicID, req.Name)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtopic)
}

// ListSubtopics возвращает подтемы темы
// GET /api/topics/:topicId/subtopics
func (h *ContentHandler) ListSubtopics(c *gin.Context) {
	topicID := c.MustGet("topicID").(uint)

	subtopics, err := h.contentService.ListSubtopics(topicID)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtopics": subtopics, "total": len(subtopics)})
}

// QuestionRequest представляет запрос на создание или обновление вопроса
type QuestionRequest struct {
	SubjectID     uint       `json:"subject_id" binding:"required"`
	TopicID       uint       `json:"topic_id" binding:"required"`
	SubtopicID    uint       `json:"subtopic_id" binding:"required"`
	Text          string     `json:"text" binding:"required,min=3,max=2000"`
	Options       []string   `json:"options" binding:"required,min=2,max=10"`
	CorrectAnswer string     `json:"correct_answer" binding:"required"`
	Difficulty    int        `json:"difficulty" binding:"required,min=1,max=5"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
}

func (r QuestionRequest) toEntity() entity.Question {
	return entity.Question{
		SubjectID:     r.SubjectID,
		TopicID:       r.TopicID,
		SubtopicID:    r.SubtopicID,
		Text:          r.Text,
		Options:       entity.StringArray(r.Options),
		CorrectAnswer: r.CorrectAnswer,
		Difficulty:    r.Difficulty,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
	}
}

// CreateQuestion обрабатывает запрос на создание вопроса
// POST /api/admin/questions
func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.toEntity()
	if err := h.contentService.CreateQuestion(&question); err != nil {
		h.handleContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// BulkCreateQuestionsRequest представляет запрос на массовое создание вопросов
type BulkCreateQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1"`
}

// BulkCreateQuestions загружает пакет вопросов в банк
// POST /api/admin/questions/bulk
func (h *ContentHandler) BulkCreateQuestions(c *gin.Context) {
	var req BulkCreateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = q.toEntity()
	}

	if err := h.contentService.BulkCreateQuestions(questions); err != nil {
		h.handleContentError(c, err)
		return
	}

	// Подсчитываем вопросы по сложности для ответа
	difficultyCount := make(map[int]int)
	for _, q := range questions {
		difficultyCount[q.Difficulty]++
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Questions uploaded successfully",
		"total":         len(questions),
		"by_difficulty": difficultyCount,
	})
}

// GetQuestion возвращает вопрос по ID (правильный ответ скрыт JSON-тегом)
// GET /api/admin/questions/:questionId
func (h *ContentHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.contentService.GetQuestion(questionID)
	if err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ListQuestions возвращает вопросы банка с пагинацией
// GET /api/admin/questions
func (h *ContentHandler) ListQuestions(c *gin.Context) {
	page, pageSize := paginationParams(c)

	questions, total, err := h.contentService.ListQuestions(page, pageSize)
	if err != nil {
		h.handleContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"total":     total,
		"page":      page,
		"per_page":  pageSize,
	})
}

// UpdateQuestion обновляет вопрос банка
// PUT /api/admin/questions/:questionId
func (h *ContentHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.toEntity()
	question.ID = questionID
	if err := h.contentService.UpdateQuestion(&question); err != nil {
		h.handleContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion удаляет вопрос из банка. Снапшоты тестов, ссылающиеся на
// него, остаются валидными: при проверке вопрос считается промахом.
// DELETE /api/admin/questions/:questionId
func (h *ContentHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.contentService.DeleteQuestion(questionID); err != nil {
		h.handleContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// Колонки файла импорта/экспорта вопросов.
// Варианты ответа разделяются вертикальной чертой.
var questionSheetHeaders = []string{"subject_id", "topic_id", "subtopic_id", "text", "options", "correct_answer", "difficulty"}

// ImportQuestionsXLSX загружает вопросы из Excel-файла
// POST /api/admin/questions/import
func (h *ContentHandler) ImportQuestionsXLSX(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid xlsx file"})
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read sheet"})
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet contains no question rows"})
		return
	}

	questions := make([]entity.Question, 0, len(rows)-1)
	for i, row := range rows[1:] { // Первая строка - заголовки
		question, err := parseQuestionRow(row)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("row %d: %v", i+2, err),
			})
			return
		}
		questions = append(questions, question)
	}

	if err := h.contentService.BulkCreateQuestions(questions); err != nil {
		h.handleContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Questions imported successfully",
		"total":   len(questions),
	})
}

// parseQuestionRow разбирает одну строку листа импорта
func parseQuestionRow(row []string) (entity.Question, error) {
	if len(row) < len(questionSheetHeaders) {
		return entity.Question{}, fmt.Errorf("expected %d columns, got %d", len(questionSheetHeaders), len(row))
	}

	subjectID, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 32)
	if err != nil {
		return entity.Question{}, fmt.Errorf("invalid subject_id %q", row[0])
	}
	topicID, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 32)
	if err != nil {
		return entity.Question{}, fmt.Errorf("invalid topic_id %q", row[1])
	}
	subtopicID, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return entity.Question{}, fmt.Errorf("invalid subtopic_id %q", row[2])
	}
	difficulty, err := strconv.Atoi(strings.TrimSpace(row[6]))
	if err != nil {
		return entity.Question{}, fmt.Errorf("invalid difficulty %q", row[6])
	}

	options := strings.Split(row[4], "|")
	for i := range options {
		options[i] = strings.TrimSpace(options[i])
	}

	return entity.Question{
		SubjectID:     uint(subjectID),
		TopicID:       uint(topicID),
		SubtopicID:    uint(subtopicID),
		Text:          strings.TrimSpace(row[3]),
		Options:       entity.StringArray(options),
		CorrectAnswer: strings.TrimSpace(row[5]),
		Difficulty:    difficulty,
	}, nil
}

// ExportQuestions экспортирует банк вопросов в CSV или Excel формате
// GET /api/admin/questions/export?format=csv|xlsx
func (h *ContentHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	questions, err := h.contentService.ListAllQuestions()
	if err != nil {
		h.handleContentError(c, err)
		return
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "csv":
		h.exportCSV(c, questions, filename)
	default:
		h.exportXLSX(c, questions, filename)
	}
}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *ContentHandler) exportCSV(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(questionSheetHeaders)

	for _, q := range questions {
		writer.Write([]string{
			strconv.FormatUint(uint64(q.SubjectID), 10),
			strconv.FormatUint(uint64(q.TopicID), 10),
			strconv.FormatUint(uint64(q.SubtopicID), 10),
			sanitizeForExcel(q.Text),
			sanitizeForExcel(strings.Join(q.Options, "|")),
			sanitizeForExcel(q.CorrectAnswer),
			strconv.Itoa(q.Difficulty),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *ContentHandler) exportXLSX(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ContentHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(questionSheetHeaders))
	for i, hdr := range questionSheetHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ContentHandler] Ошибка записи заголовков: %v", err)
	}

	for i, q := range questions {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			q.SubjectID,
			q.TopicID,
			q.SubtopicID,
			sanitizeForExcel(q.Text),
			sanitizeForExcel(strings.Join(q.Options, "|")),
			sanitizeForExcel(q.CorrectAnswer),
			q.Difficulty,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ContentHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ContentHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ContentHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleContentError обрабатывает ошибки сервиса контента
func (h *ContentHandler) handleContentError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ContentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
