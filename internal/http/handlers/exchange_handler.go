package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/dto"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// ExchangeHandler обрабатывает жизненный цикл запросов на обмен.
type ExchangeHandler struct {
	exchanges *service.ExchangeService
}

// NewExchangeHandler создаёт новый exchange handler.
func NewExchangeHandler(exchanges *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchanges: exchanges}
}

// Create обрабатывает POST /api/exchanges.
// Баллы отправителя замораживаются атомарно с созданием записи.
func (h *ExchangeHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор получателя"})
		return
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор навыка"})
		return
	}

	ex, err := h.exchanges.Create(c.Request.Context(), service.CreateExchangeInput{
		SenderID:   userID,
		ReceiverID: receiverID,
		SkillID:    skillID,
		Price:      req.Price,
		Message:    req.Message,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ex)
}

// Get обрабатывает GET /api/exchanges/:id. Доступен только сторонам обмена.
func (h *ExchangeHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	ex, err := h.exchanges.Get(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ex)
}

// Accept обрабатывает POST /api/exchanges/:id/accept.
func (h *ExchangeHandler) Accept(c *gin.Context) {
	h.transition(c, h.exchanges.Accept)
}

// Decline обрабатывает POST /api/exchanges/:id/decline.
// Замороженные баллы возвращаются отправителю в той же транзакции.
func (h *ExchangeHandler) Decline(c *gin.Context) {
	h.transition(c, h.exchanges.Decline)
}

// Confirm обрабатывает POST /api/exchanges/:id/confirm.
// При подтверждении обеими сторонами обмен завершается и проводится расчёт.
func (h *ExchangeHandler) Confirm(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	ex, completed, err := h.exchanges.Confirm(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeResponse{ExchangeRequest: ex, Completed: completed})
}

// ListMy обрабатывает GET /api/exchanges/my.
func (h *ExchangeHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, offset := pagination(c)
	exchanges, err := h.exchanges.ListMy(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(exchanges, limit, offset))
}

// Inbox обрабатывает GET /api/exchanges/inbox: входящие pending запросы.
func (h *ExchangeHandler) Inbox(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	exchanges, err := h.exchanges.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(exchanges, len(exchanges), 0))
}

// transition выполняет переход статуса с общей обвязкой.
func (h *ExchangeHandler) transition(c *gin.Context, fn func(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error)) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	ex, err := fn(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ex)
}
