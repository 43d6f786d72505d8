package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей (закрытое множество)
const (
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// IsValidRole проверяет, что строка является допустимой ролью
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleParent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User представляет пользователя в системе
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	FirstName   string     `gorm:"size:100;not null;default:''" json:"first_name"`
	LastName    string     `gorm:"size:100;not null;default:''" json:"last_name"`
	Role        string     `gorm:"size:20;not null;default:'student';index" json:"role"`
	ParentEmail string     `gorm:"size:100;not null;default:''" json:"parent_email,omitempty"` // Email родителя для уведомлений о результатах
	TutorID     *uint      `gorm:"index" json:"tutor_id,omitempty"`                            // Закрепленный тьютор (для студентов)
	BirthDate   *time.Time `gorm:"type:date" json:"birth_date,omitempty"`

	// Агрегаты по пройденным тестам
	TestsTaken int64   `gorm:"not null;default:0" json:"tests_taken"`
	BestScore  float64 `gorm:"not null;default:0" json:"best_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanActFor проверяет, может ли пользователь действовать от имени студента.
// Админ - всегда, тьютор - только для закрепленных за ним студентов.
func (u *User) CanActFor(student *User) bool {
	if u.ID == student.ID || u.Role == RoleAdmin {
		return true
	}
	if u.Role == RoleTutor && student.TutorID != nil && *student.TutorID == u.ID {
		return true
	}
	return false
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
