package dto

import "github.com/ignatzorin/wxai-backend/internal/models"

// MessageResponse простой ответ с сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse токен сессии и публичные данные пользователя.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AIResponse результат запроса к AI.
type AIResponse struct {
	Output string `json:"output"`
}

// ErrorResponse формат ошибки, который пишет ErrorHandler.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
