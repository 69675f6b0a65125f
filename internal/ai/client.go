// Package ai клиент OpenAI-совместимого API: текстовые ответы и генерация изображений.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyResponse сервис ответил без содержимого.
var ErrEmptyResponse = errors.New("ai: пустой ответ")

// Config параметры подключения.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	ImageSize string
	Timeout   time.Duration
}

// Client реализует обращения к OpenAI-совместимому API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	imageSize  string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "512x512"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		imageSize: cfg.ImageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Complete возвращает ответ модели на одно пользовательское сообщение.
func (c *Client) Complete(ctx context.Context, input string) (string, error) {
	messages := []map[string]string{
		{"role": "user", "content": input},
	}
	return c.chatCompletionWithOptions(ctx, messages, 1024, 0.7)
}

// chatCompletionWithOptions выполняет запрос с настраиваемыми параметрами.
func (c *Client) chatCompletionWithOptions(ctx context.Context, messages []map[string]string, maxTokens int, temperature float64) (string, error) {
	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "chat/completions", payload, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}

// GenerateImage генерирует одно изображение и возвращает его URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"prompt": prompt,
		"n":      1,
		"size":   c.imageSize,
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, "images/generations", payload, &result); err != nil {
		return "", err
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", ErrEmptyResponse
	}

	return result.Data[0].URL, nil
}

// post отправляет JSON и декодирует ответ в out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("ai: baseURL не задан")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ai: запрос %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ai: код ответа %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ai: декодирование ответа: %w", err)
	}
	return nil
}
