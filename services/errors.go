package services

import (
	"errors"
	"strings"
)

// Доменные ошибки. Контроллеры переводят их в HTTP статусы через errors.Is.
var (
	// ErrValidation некорректные входные данные (400)
	ErrValidation = errors.New("validation failed")

	// ErrCategoryNotFound категория отсутствует, чужая или удалена (404, при создании транзакции 400)
	ErrCategoryNotFound = errors.New("Category not found")

	// ErrTransactionNotFound транзакция отсутствует, чужая или удалена (404)
	ErrTransactionNotFound = errors.New("Transaction not found")

	// ErrUserNotFound пользователь отсутствует или деактивирован (401)
	ErrUserNotFound = errors.New("User not found")

	// ErrEmailTaken email уже зарегистрирован (409)
	ErrEmailTaken = errors.New("Email already registered")

	// ErrInvalidCredentials неверная пара email/пароль (401)
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrUserInactive учетная запись деактивирована (401)
	ErrUserInactive = errors.New("User account is deactivated")

	// ErrInvalidToken токен не прошел проверку (401)
	ErrInvalidToken = errors.New("Invalid token")

	// ErrTokenExpired срок действия токена истек (401)
	ErrTokenExpired = errors.New("Token expired")
)

// ValidationError содержит список нарушений. errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(problems ...string) error {
	return &ValidationError{Problems: problems}
}
