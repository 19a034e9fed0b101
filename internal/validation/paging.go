package validation

import "fmt"

const (
	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 10
	// MaxPageSize максимальный размер страницы
	MaxPageSize = 1000
	// MaxTokenLen максимальная длина строки токена
	MaxTokenLen = 64
)

// ValidatePaging проверяет параметры постраничной выборки
func ValidatePaging(pageNo, pageSize int) error {
	if pageNo < 1 {
		return fmt.Errorf("pageNo must be at least 1, got %d", pageNo)
	}
	if pageSize < 1 {
		return fmt.Errorf("pageSize must be at least 1, got %d", pageSize)
	}
	if pageSize > MaxPageSize {
		return fmt.Errorf("pageSize must not exceed %d, got %d", MaxPageSize, pageSize)
	}
	return nil
}

// ValidateToken проверяет строку токена перед сохранением
// Содержимое токена не интерпретируется
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if len(token) > MaxTokenLen {
		return fmt.Errorf("token must not exceed %d characters", MaxTokenLen)
	}
	return nil
}
