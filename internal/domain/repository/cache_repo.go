package repository

import (
	"time"
)

// CacheRepository определяет методы кеширования JSON-структур.
// Единственный потребитель - кеш снапшотов тестов: снапшоты неизменяемы,
// поэтому инвалидация не нужна и интерфейс ограничен записью и чтением.
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
}
