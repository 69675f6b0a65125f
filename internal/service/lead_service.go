package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// LeadStore хранилище обращений.
type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
}

// LeadService принимает обращения в отдел продаж.
type LeadService struct {
	leads LeadStore
}

func NewLeadService(leads LeadStore) *LeadService {
	return &LeadService{leads: leads}
}

// Submit сохраняет обращение пользователя.
func (s *LeadService) Submit(ctx context.Context, userID uuid.UUID, message string) (*models.Lead, error) {
	if err := validation.ValidateMessageContent(message); err != nil {
		return nil, err
	}

	lead := &models.Lead{UserID: userID, Message: strings.TrimSpace(message)}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("lead service: %w", err)
	}
	return lead, nil
}
