package validation

import "unicode/utf8"

const (
	MinPasswordLength = 6
	// MaxPasswordLength ограничение bcrypt.
	MaxPasswordLength = 72
)

// ValidatePassword проверяет длину пароля.
func ValidatePassword(password string) error {
	if password == "" {
		return newError("пароль обязателен")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return newError("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return newError("пароль должен быть не более %d байт", MaxPasswordLength)
	}
	return nil
}
