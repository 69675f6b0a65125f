package service

import "errors"

// Ошибки сервисного слоя. Обработчики переводят их в apperror.
var (
	ErrAlreadyRegistered  = errors.New("email уже зарегистрирован")
	ErrDeliveryFailed     = errors.New("не удалось отправить код подтверждения")
	ErrCodeNotFound       = errors.New("код подтверждения не найден")
	ErrCodeMismatch       = errors.New("код подтверждения не совпадает")
	ErrCodeExpired        = errors.New("срок действия кода истёк")
	ErrPersistenceFailed  = errors.New("не удалось сохранить пользователя")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrTrialUsed          = errors.New("пробный запрос уже использован")
	ErrUpstreamFailed     = errors.New("AI сервис недоступен")
)
