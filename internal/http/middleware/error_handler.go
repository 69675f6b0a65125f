package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wxai-backend/internal/logger"
	"github.com/ignatzorin/wxai-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Клиент получает код и сообщение из apperror, причина остаётся в логах.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)

		entry := logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": appErr.HTTPStatus,
			"code":   appErr.Code,
		})
		if appErr.Cause != nil {
			entry = entry.WithError(appErr.Cause)
		}
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			entry.Error(appErr.Message)
		} else {
			entry.Warn(appErr.Message)
		}

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
	}
}
