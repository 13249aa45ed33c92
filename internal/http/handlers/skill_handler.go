package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap-backend/internal/dto"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// SkillHandler обрабатывает каталог навыков.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler создаёт новый skill handler.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// Create обрабатывает POST /api/skills.
func (h *SkillHandler) Create(c *gin.Context) {
	var req dto.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	skill, err := h.skills.Create(c.Request.Context(), service.CreateSkillInput{
		Name:            req.Name,
		Description:     req.Description,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// List обрабатывает GET /api/skills?q=...
func (h *SkillHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	skills, err := h.skills.List(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(skills, limit, offset))
}

// Get обрабатывает GET /api/skills/:id.
func (h *SkillHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	skill, err := h.skills.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// GetBySlug обрабатывает GET /api/skills/slug/:slug.
func (h *SkillHandler) GetBySlug(c *gin.Context) {
	skill, err := h.skills.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, skill)
}
