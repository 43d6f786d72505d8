package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examprep-api/internal/handler/dto"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
	"github.com/yourusername/examprep-api/internal/service"
)

// TestHandler обрабатывает запросы конфигураций, генерации и проверки тестов
type TestHandler struct {
	configService    *service.ConfigService
	generatorService *service.GeneratorService
	scorerService    *service.ScorerService
}

// NewTestHandler создает новый обработчик тестов
func NewTestHandler(
	configService *service.ConfigService,
	generatorService *service.GeneratorService,
	scorerService *service.ScorerService,
) *TestHandler {
	return &TestHandler{
		configService:    configService,
		generatorService: generatorService,
		scorerService:    scorerService,
	}
}

// ConfigRequest представляет запрос на создание или правку конфигурации
type ConfigRequest struct {
	StudentID        uint   `json:"student_id"` // 0 = для самого создателя
	TopicIDs         []uint `json:"topic_ids"`
	SubtopicIDs      []uint `json:"subtopic_ids"`
	DifficultyLevels []int  `json:"difficulty_levels"`
	QuestionCount    int    `json:"question_count" binding:"required"`
	TimeLimitMin     int    `json:"time_limit_min" binding:"required"`
	TestType         string `json:"test_type" binding:"required"`
}

func (r ConfigRequest) toInput() service.ConfigInput {
	return service.ConfigInput{
		StudentID:        r.StudentID,
		TopicIDs:         r.TopicIDs,
		SubtopicIDs:      r.SubtopicIDs,
		DifficultyLevels: r.DifficultyLevels,
		QuestionCount:    r.QuestionCount,
		TimeLimitMin:     r.TimeLimitMin,
		TestType:         r.TestType,
	}
}

// CreateConfig обрабатывает запрос на создание конфигурации теста
// POST /api/configurations
func (h *TestHandler) CreateConfig(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.configService.CreateConfig(userID, req.toInput())
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewConfigResponse(config))
}

// ReviseConfig обрабатывает правку конфигурации. Правка создает новую
// версию: ранее сгенерированные тесты продолжают ссылаться на старую.
// POST /api/configurations/:configId/revise
func (h *TestHandler) ReviseConfig(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	configID := c.MustGet("configID").(uint)

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.configService.ReviseConfig(configID, userID, req.toInput())
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewConfigResponse(config))
}

// GetConfig возвращает конфигурацию по ID
// GET /api/configurations/:configId
func (h *TestHandler) GetConfig(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	configID := c.MustGet("configID").(uint)

	config, err := h.configService.GetConfig(configID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewConfigResponse(config))
}

// ListConfigs возвращает конфигурации текущего пользователя с пагинацией
// GET /api/configurations
func (h *TestHandler) ListConfigs(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, pageSize := paginationParams(c)

	configs, total, err := h.configService.ListConfigs(userID, page, pageSize)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedConfigResponse(configs, total, page, pageSize))
}

// GenerateTest резолвит конфигурацию в сгенерированный тест
// POST /api/tests/generate/:configId
func (h *TestHandler) GenerateTest(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	configID := c.MustGet("configID").(uint)

	test, err := h.generatorService.Generate(configID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	// Отдаем свежесгенерированный тест сразу с вопросами
	_, questions, err := h.generatorService.GetTestWithQuestions(test.ID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTestResponse(test, questions))
}

// GetTest возвращает сгенерированный тест с вопросами (без правильных ответов)
// GET /api/tests/:testId
func (h *TestHandler) GetTest(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	testID := c.MustGet("testID").(uint)

	test, questions, err := h.generatorService.GetTestWithQuestions(testID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	resp := dto.NewTestResponse(test, questions)
	if count, err := h.scorerService.CountAttemptsByTest(testID); err == nil {
		resp.AttemptCount = count
	} else {
		log.Printf("[TestHandler] Не удалось посчитать попытки по тесту ID=%d: %v", testID, err)
	}

	c.JSON(http.StatusOK, resp)
}

// GetTestByPublicID возвращает тест по внешнему UUID из шаринг-ссылки
// GET /api/tests/public/:publicId
func (h *TestHandler) GetTestByPublicID(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	publicID := c.Param("publicId")

	test, questions, err := h.generatorService.GetTestByPublicID(publicID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	resp := dto.NewTestResponse(test, questions)
	if count, err := h.scorerService.CountAttemptsByTest(test.ID); err == nil {
		resp.AttemptCount = count
	}

	c.JSON(http.StatusOK, resp)
}

// ListMyTests возвращает тесты текущего пользователя
// GET /api/tests
func (h *TestHandler) ListMyTests(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, pageSize := paginationParams(c)

	tests, total, err := h.generatorService.ListTests(userID, page, pageSize)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	// Списку достаточно метаданных, вопросы не включаем
	list := make([]*dto.TestResponse, len(tests))
	for i := range tests {
		tests[i].Questions = nil
		list[i] = dto.NewTestResponse(&tests[i], nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"tests":    list,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// SubmitAttemptRequest представляет запрос на сдачу теста.
// Ключи answers - ID вопросов, значения - выбранные варианты.
type SubmitAttemptRequest struct {
	Answers      map[uint]string `json:"answers" binding:"required"`
	TimeSpentSec int             `json:"time_spent_sec" binding:"omitempty,min=0"`
}

// SubmitAttempt проверяет ответы и сохраняет попытку
// POST /api/tests/:testId/submit
func (h *TestHandler) SubmitAttempt(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	testID := c.MustGet("testID").(uint)

	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.scorerService.Score(testID, userID, req.Answers, req.TimeSpentSec)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}

// ListTestAttempts возвращает все попытки по тесту
// GET /api/tests/:testId/attempts
func (h *TestHandler) ListTestAttempts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	testID := c.MustGet("testID").(uint)

	attempts, err := h.scorerService.ListAttemptsByTest(testID, userID)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": dto.NewListAttemptResponse(attempts),
		"total":    len(attempts),
	})
}

// ListMyAttempts возвращает историю попыток текущего пользователя
// GET /api/attempts
func (h *TestHandler) ListMyAttempts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, pageSize := paginationParams(c)

	attempts, total, err := h.scorerService.ListAttemptsByUser(userID, page, pageSize)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedAttemptResponse(attempts, total, page, pageSize))
}

// paginationParams извлекает параметры пагинации из query
func paginationParams(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// handleTestError обрабатывает ошибки сервисов тестов и отправляет соответствующий HTTP ответ
func (h *TestHandler) handleTestError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrInsufficientPool) {
		// Жесткое предусловие генерации: пул меньше запрошенного количества.
		// Не ретраится без изменения фильтров.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "insufficient_pool"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in TestHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
