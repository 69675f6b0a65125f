package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/wxai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/wxai-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextNameKey   = "userName"
	ContextEmailKey  = "userEmail"
)

// AuthMiddleware проверяет JWT токен сессии.
// Без токена отвечает 401, с невалидным токеном 403.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			_ = c.Error(apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		identity, err := tokens.Parse(raw)
		if err != nil || identity.UserID == uuid.Nil {
			_ = c.Error(apperror.Wrap(err, apperror.ErrCodeForbidden, apperror.ErrInvalidToken.Message))
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextNameKey, identity.Name)
		c.Set(ContextEmailKey, identity.Email)
		c.Next()
	}
}
