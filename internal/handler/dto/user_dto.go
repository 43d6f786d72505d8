package dto

import (
	"time"

	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        string    `json:"role"`
	ParentEmail string    `json:"parent_email,omitempty"`
	TutorID     *uint     `json:"tutor_id,omitempty"`
	TestsTaken  int64     `json:"tests_taken"`
	BestScore   float64   `json:"best_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse представляет ответ на регистрацию или вход
type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		ParentEmail: user.ParentEmail,
		TutorID:     user.TutorID,
		TestsTaken:  user.TestsTaken,
		BestScore:   user.BestScore,
		CreatedAt:   user.CreatedAt,
	}
}

// NewListUserResponse создает слайс DTO для списка пользователей
func NewListUserResponse(users []entity.User) []*UserResponse {
	list := make([]*UserResponse, len(users))
	for i := range users {
		list[i] = NewUserResponse(&users[i])
	}
	return list
}
