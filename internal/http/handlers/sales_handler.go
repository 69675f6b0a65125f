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

// LeadSubmitter принимает заявки в отдел продаж.
type LeadSubmitter interface {
	Submit(ctx context.Context, userID uuid.UUID, message string) (*models.Lead, error)
}

// SalesHandler обрабатывает заявки в отдел продаж.
type SalesHandler struct {
	leads LeadSubmitter
}

// NewSalesHandler создаёт хэндлер.
func NewSalesHandler(leads LeadSubmitter) *SalesHandler {
	return &SalesHandler{leads: leads}
}

// Contact обрабатывает POST /api/sales/contact.
func (h *SalesHandler) Contact(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req dto.ContactRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	if _, err := h.leads.Submit(c.Request.Context(), userID, req.Message); err != nil {
		common.Fail(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "заявка отправлена, мы свяжемся с вами"})
}
