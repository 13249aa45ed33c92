package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/dto"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// PointsHandler обрабатывает балансы и историю операций.
type PointsHandler struct {
	points *service.PointsService
}

// NewPointsHandler создаёт новый points handler.
func NewPointsHandler(points *service.PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// GetBalance обрабатывает GET /api/points/balance.
func (h *PointsHandler) GetBalance(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.points.GetBalance(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Available: balance.Available, Held: balance.Held})
}

// ListTransactions обрабатывает GET /api/points/transactions.
func (h *PointsHandler) ListTransactions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, offset := pagination(c)
	transactions, err := h.points.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(transactions, limit, offset))
}

// AdminDeposit обрабатывает POST /api/points/deposit (только admin).
func (h *PointsHandler) AdminDeposit(c *gin.Context) {
	var req dto.AdminDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор пользователя"})
		return
	}

	if err := h.points.AdminDeposit(c.Request.Context(), targetID, req.Amount, req.Description); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
