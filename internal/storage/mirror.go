package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
)

// MediaPrefix URL префикс, под которым раздаются сохранённые изображения.
const MediaPrefix = "/media"

// Mirror сохраняет сгенерированные изображения в локальное хранилище.
type Mirror struct {
	storage    *ImageStorage
	httpClient *http.Client
}

// NewMirror создаёт зеркало поверх хранилища.
func NewMirror(storage *ImageStorage, timeout time.Duration) *Mirror {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Mirror{
		storage:    storage,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Mirror скачивает изображение по url и возвращает локальный путь вида /media/<user>/<file>.
func (m *Mirror) Mirror(ctx context.Context, userID uuid.UUID, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("storage: некорректный url: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: загрузка изображения: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: загрузка изображения: код ответа %d", resp.StatusCode)
	}

	relative, _, err := m.storage.Save(ctx, userID, resp.Body)
	if err != nil {
		return "", err
	}
	return path.Join(MediaPrefix, relative), nil
}
