package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examprep-api/internal/handler/dto"
	apperrors "github.com/yourusername/examprep-api/internal/pkg/errors"
	"github.com/yourusername/examprep-api/internal/service"
)

// UserHandler обрабатывает запросы профилей пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile возвращает профиль текущего пользователя
// GET /api/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfileRequest представляет запрос на обновление профиля.
// Указатели отличают "не менять" от "очистить".
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	ParentEmail *string `json:"parent_email" binding:"omitempty,email"`
}

// UpdateProfile обновляет профиль текущего пользователя
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, service.ProfileUpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ParentEmail: req.ParentEmail,
	})
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// AssignTutorRequest представляет запрос на закрепление тьютора за студентом
type AssignTutorRequest struct {
	TutorID uint `json:"tutor_id" binding:"required"`
}

// AssignTutor закрепляет тьютора за студентом
// POST /api/admin/students/:studentId/tutor
func (h *UserHandler) AssignTutor(c *gin.Context) {
	requesterID := c.MustGet("user_id").(uint)
	studentID := c.MustGet("studentID").(uint)

	var req AssignTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.AssignTutor(requesterID, studentID, req.TutorID); err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tutor assigned successfully"})
}

// ListStudents возвращает список студентов (для админов и тьюторов)
// GET /api/admin/students
func (h *UserHandler) ListStudents(c *gin.Context) {
	page, pageSize := paginationParams(c)

	students, err := h.userService.ListStudents(page, pageSize)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": dto.NewListUserResponse(students),
		"page":     page,
		"per_page": pageSize,
	})
}

// handleUserError обрабатывает ошибки сервиса пользователей
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in UserHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
