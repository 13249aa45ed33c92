package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap-backend/internal/dto"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации тестовых данных.
// Доступен только в development окружении.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed обрабатывает POST /api/seed и GET /api/seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	var req dto.SeedRequest

	if c.Request.Method == http.MethodGet {
		req.NumUsers, _ = strconv.Atoi(c.DefaultQuery("num_users", "20"))
		req.NumExchanges, _ = strconv.Atoi(c.DefaultQuery("num_exchanges", "30"))
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
			return
		}
	}

	if req.NumUsers < 1 {
		req.NumUsers = 20
	}
	if req.NumExchanges < 0 {
		req.NumExchanges = 30
	}
	if req.NumUsers > 500 {
		req.NumUsers = 500
	}
	if req.NumExchanges > 2000 {
		req.NumExchanges = 2000
	}

	result, err := h.seed.SeedData(c.Request.Context(), req.NumUsers, req.NumExchanges)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "не удалось сгенерировать данные",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
