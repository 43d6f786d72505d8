package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	return scanJSONB(value, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// UintArray - JSONB массив идентификаторов (топики, подтопики)
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (o *UintArray) Scan(value interface{}) error {
	return scanJSONB(value, o)
}

// Value реализует интерфейс driver.Valuer для UintArray
func (o UintArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Contains проверяет наличие id в массиве
func (o UintArray) Contains(id uint) bool {
	for _, v := range o {
		if v == id {
			return true
		}
	}
	return false
}

// IntArray - JSONB массив уровней сложности
type IntArray []int

// Scan реализует интерфейс sql.Scanner для IntArray
func (o *IntArray) Scan(value interface{}) error {
	return scanJSONB(value, o)
}

// Value реализует интерфейс driver.Valuer для IntArray
func (o IntArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// AnswerMap - JSONB отображение "ID вопроса (строкой) → выбранный ответ".
// Ключи строковые, т.к. JSON не допускает числовых ключей объектов.
type AnswerMap map[string]string

// Scan реализует интерфейс sql.Scanner для AnswerMap
func (o *AnswerMap) Scan(value interface{}) error {
	if value == nil {
		*o = AnswerMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*o = AnswerMap{}
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для AnswerMap
func (o AnswerMap) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

// scanJSONB - общая логика чтения JSONB значений для массивных типов
func scanJSONB(value interface{}, dest interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		return resetJSONBDest(dest)
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		return resetJSONBDest(dest)
	}

	return json.Unmarshal(bytes, dest)
}

func resetJSONBDest(dest interface{}) error {
	switch d := dest.(type) {
	case *StringArray:
		*d = StringArray{}
	case *UintArray:
		*d = UintArray{}
	case *IntArray:
		*d = IntArray{}
	}
	return nil
}
