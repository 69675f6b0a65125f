package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength    = 1
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MinPromptLength  = 1
	MaxPromptLength  = 4000
	MinMessageLength = 1
	MaxMessageLength = 5000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// Error ошибка валидации. Текст можно показывать клиенту.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError сообщает, является ли err ошибкой валидации.
func IsValidationError(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

// NormalizeEmail обрезает пробелы и приводит email к нижнему регистру.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return newError("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return newError("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return newError("email обязателен")
	}
	if len(email) > MaxEmailLength {
		return newError("email слишком длинный")
	}

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return newError("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return newError("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return newError("локальная часть email должна быть от 1 до 64 символов")
	}
	if !strings.Contains(domainPart, ".") {
		return newError("доменная часть email должна содержать точку")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return newError("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return newError("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return newError("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateName проверяет имя пользователя при регистрации.
func ValidateName(name string) error {
	if err := ValidateNonEmpty("имя", name); err != nil {
		return err
	}
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidatePrompt проверяет запрос к AI.
func ValidatePrompt(input string) error {
	if err := ValidateNonEmpty("запрос", input); err != nil {
		return err
	}
	return ValidateLength("запрос", strings.TrimSpace(input), MinPromptLength, MaxPromptLength)
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if err := ValidateNonEmpty("сообщение", content); err != nil {
		return err
	}
	return ValidateLength("сообщение", strings.TrimSpace(content), MinMessageLength, MaxMessageLength)
}
