package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientPool используется, когда подходящих под фильтры вопросов меньше,
	// чем запрошено в конфигурации теста. Не ретраится без изменения фильтров.
	ErrInsufficientPool = errors.New("not enough questions matching the configured filters")

	// ErrConflict используется для конфликтов состояния (например, email уже занят).
	ErrConflict = errors.New("resource state conflict")
)
