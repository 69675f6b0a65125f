package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/wxai-backend/internal/models"
)

// HistoryLimit сколько последних запросов отдаём пользователю.
const HistoryLimit = 50

// RequestRepository хранит историю запросов к AI.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository создаёт экземпляр репозитория.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create сохраняет пару запрос/ответ.
func (r *RequestRepository) Create(ctx context.Context, req *models.AIRequest) error {
	query := `
		INSERT INTO requests (user_id, request_type, input, output)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, req.UserID, req.RequestType, req.Input, req.Output).
		Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("request repository: create %w", err)
	}
	return nil
}

// ListByUser возвращает последние запросы пользователя, новые первыми.
func (r *RequestRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AIRequest, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	items := []models.AIRequest{}
	query := `
		SELECT id, user_id, request_type, input, output, created_at
		FROM requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		return nil, fmt.Errorf("request repository: list by user %w", err)
	}
	return items, nil
}
