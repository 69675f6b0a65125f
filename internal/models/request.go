package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы запросов к AI.
const (
	RequestTypeText  = "text"
	RequestTypeImage = "image"
)

// AIRequest сохранённая пара запрос/ответ пользователя.
type AIRequest struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"-"`
	RequestType string    `db:"request_type" json:"request_type"`
	Input       string    `db:"input" json:"input"`
	Output      string    `db:"output" json:"output"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Lead заявка в отдел продаж.
type Lead struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
