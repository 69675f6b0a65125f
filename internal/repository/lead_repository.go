package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/wxai-backend/internal/models"
)

// LeadRepository сохраняет обращения в отдел продаж.
type LeadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := `INSERT INTO leads (user_id, message) VALUES ($1, $2) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, lead.UserID, lead.Message).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return fmt.Errorf("lead repository: create %w", err)
	}
	return nil
}
