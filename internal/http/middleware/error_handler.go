package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/skillswap-backend/internal/logger"
	"github.com/skillswap/skillswap-backend/internal/pkg/apperror"
	"github.com/skillswap/skillswap-backend/internal/repository"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			statusCode, message := classify(err.Err)

			// Логируем ошибку
			if logger.Log != nil {
				entry := logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"status": statusCode,
				})
				if statusCode >= http.StatusInternalServerError {
					entry.Error("request error")
				} else {
					entry.Warn("request error")
				}
			}

			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}

// classify сопоставляет ошибку со статусом и сообщением для клиента.
func classify(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, appErr.Message
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "пользователь не найден"
	case errors.Is(err, repository.ErrSkillNotFound):
		return http.StatusNotFound, "навык не найден"
	case errors.Is(err, repository.ErrExchangeNotFound):
		return http.StatusNotFound, "запрос на обмен не найден"
	case errors.Is(err, repository.ErrNotificationNotFound):
		return http.StatusNotFound, "уведомление не найдено"
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "действие доступно только стороне обмена"
	case errors.Is(err, repository.ErrInvalidState):
		return http.StatusConflict, "операция недопустима в текущем статусе обмена"
	case errors.Is(err, repository.ErrInsufficientFunds):
		return http.StatusBadRequest, "недостаточно баллов"
	case errors.Is(err, service.ErrSelfExchange):
		return http.StatusBadRequest, "нельзя отправить запрос на обмен самому себе"
	case errors.Is(err, repository.ErrConsistency):
		// Нарушение инварианта леджера. Деталей клиенту не раскрываем.
		return http.StatusInternalServerError, "внутренняя ошибка сервера"
	}

	// Если ошибка содержит понятное сообщение, используем его,
	// но только если это не внутренняя ошибка
	if errStr := err.Error(); errStr != "" && !containsInternalKeywords(errStr) {
		statusCode := http.StatusBadRequest
		if contains(errStr, "нет прав") || contains(errStr, "не авторизован") {
			statusCode = http.StatusForbidden
		}
		return statusCode, strings.TrimSpace(trimServicePrefix(errStr))
	}

	return http.StatusInternalServerError, "внутренняя ошибка сервера"
}

// trimServicePrefix убирает технический префикс вида "auth service: ".
func trimServicePrefix(s string) string {
	if idx := strings.Index(s, "service: "); idx >= 0 {
		return s[idx+len("service: "):]
	}
	return s
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
		"transaction",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
