package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wxai-backend/internal/logger"
	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/repository"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// AIClient вызовы AI провайдера.
type AIClient interface {
	Complete(ctx context.Context, input string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageMirror сохраняет сгенерированное изображение локально.
type ImageMirror interface {
	Mirror(ctx context.Context, userID uuid.UUID, url string) (string, error)
}

// TrialStore флаг пробного запроса.
type TrialStore interface {
	GetTrialUsed(ctx context.Context, id uuid.UUID) (bool, error)
	SetTrialUsed(ctx context.Context, id uuid.UUID) error
}

// RequestStore история запросов.
type RequestStore interface {
	Create(ctx context.Context, req *models.AIRequest) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AIRequest, error)
}

// AIConfig параметры прокси.
type AIConfig struct {
	Timeout       time.Duration
	TrialEnforced bool
}

// AIService проксирует запросы к AI и ведёт историю.
type AIService struct {
	users    TrialStore
	requests RequestStore
	client   AIClient
	mirror   ImageMirror
	cfg      AIConfig
}

// NewAIService создаёт сервис. mirror может быть nil.
func NewAIService(users TrialStore, requests RequestStore, client AIClient, mirror ImageMirror, cfg AIConfig) *AIService {
	return &AIService{
		users:    users,
		requests: requests,
		client:   client,
		mirror:   mirror,
		cfg:      cfg,
	}
}

// Chat возвращает текстовый ответ модели.
func (s *AIService) Chat(ctx context.Context, userID uuid.UUID, input string) (string, error) {
	return s.run(ctx, userID, models.RequestTypeText, input)
}

// Image генерирует изображение и возвращает ссылку на него.
func (s *AIService) Image(ctx context.Context, userID uuid.UUID, input string) (string, error) {
	return s.run(ctx, userID, models.RequestTypeImage, input)
}

// History последние запросы пользователя, новые первыми.
func (s *AIService) History(ctx context.Context, userID uuid.UUID) ([]models.AIRequest, error) {
	items, err := s.requests.ListByUser(ctx, userID, repository.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("ai service: %w", err)
	}
	return items, nil
}

func (s *AIService) run(ctx context.Context, userID uuid.UUID, kind, input string) (string, error) {
	if err := validation.ValidatePrompt(input); err != nil {
		return "", err
	}
	input = strings.TrimSpace(input)

	if s.cfg.TrialEnforced {
		used, err := s.users.GetTrialUsed(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return "", ErrUserNotFound
			}
			return "", fmt.Errorf("ai service: %w", err)
		}
		if used {
			return "", ErrTrialUsed
		}
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "ai",
		"user_id":   userID,
		"type":      kind,
	})

	output, err := s.call(ctx, kind, input)
	if err != nil {
		log.WithError(err).Warn("запрос к AI завершился ошибкой")
		return "", fmt.Errorf("%w: %w", ErrUpstreamFailed, err)
	}

	if kind == models.RequestTypeImage && s.mirror != nil {
		local, err := s.mirror.Mirror(ctx, userID, output)
		if err != nil {
			log.WithError(err).Warn("не удалось сохранить изображение локально, отдаём ссылку провайдера")
		} else {
			output = local
		}
	}

	req := &models.AIRequest{
		UserID:      userID,
		RequestType: kind,
		Input:       input,
		Output:      output,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return "", fmt.Errorf("ai service: %w", err)
	}
	if err := s.users.SetTrialUsed(ctx, userID); err != nil {
		return "", fmt.Errorf("ai service: %w", err)
	}

	log.Info("запрос к AI выполнен")
	return output, nil
}

func (s *AIService) call(ctx context.Context, kind, input string) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if kind == models.RequestTypeImage {
		return s.client.GenerateImage(ctx, input)
	}
	return s.client.Complete(ctx, input)
}
