package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/wxai-backend/internal/dto"
	"github.com/ignatzorin/wxai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/wxai-backend/internal/models"
)

// Assistant запросы к AI от имени пользователя.
type Assistant interface {
	Chat(ctx context.Context, userID uuid.UUID, input string) (string, error)
	Image(ctx context.Context, userID uuid.UUID, input string) (string, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.AIRequest, error)
}

// AIHandler обслуживает /api/ai и историю запросов.
type AIHandler struct {
	ai Assistant
}

// NewAIHandler создаёт хэндлер.
func NewAIHandler(ai Assistant) *AIHandler {
	return &AIHandler{ai: ai}
}

// Chat обрабатывает POST /api/ai/chat.
func (h *AIHandler) Chat(c *gin.Context) {
	h.handle(c, h.ai.Chat)
}

// Image обрабатывает POST /api/ai/image.
func (h *AIHandler) Image(c *gin.Context) {
	h.handle(c, h.ai.Image)
}

// History обрабатывает GET /api/user/requests.
func (h *AIHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	items, err := h.ai.History(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, toAppError(err))
		return
	}
	if items == nil {
		items = []models.AIRequest{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *AIHandler) handle(c *gin.Context, call func(context.Context, uuid.UUID, string) (string, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req dto.AIRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	output, err := call(c.Request.Context(), userID, req.Input)
	if err != nil {
		common.Fail(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, dto.AIResponse{Output: output})
}
