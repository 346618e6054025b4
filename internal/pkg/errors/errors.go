package errors

import (
	"errors"
	"fmt"
)

// AppError - тегированная ошибка ядра анализа
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf создает ошибку с форматированным сообщением
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// CodeOf возвращает код ошибки или пустую строку для нетегированных ошибок
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode проверяет, несет ли цепочка ошибок указанный код
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
