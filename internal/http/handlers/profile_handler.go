package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/dto"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// ProfileHandler обрабатывает профили пользователей и поиск партнёров.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт новый profile handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe обрабатывает GET /api/profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe обрабатывает PUT /api/profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, service.UpdateProfileInput{
		FullName:   req.FullName,
		University: req.University,
		Bio:        req.Bio,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserProfile обрабатывает GET /api/users/:id.
// Возвращает публичное представление без email и заморозок.
func (h *ProfileHandler) GetUserProfile(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	user, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.PublicUser{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		University: user.University,
		Points:     user.AvailablePoints,
	})
}

// Search обрабатывает GET /api/users/search?q=...&skill=...&mode=teach|learn.
func (h *ProfileHandler) Search(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, offset := pagination(c)
	users, err := h.profiles.Search(
		c.Request.Context(),
		userID,
		c.Query("q"),
		c.Query("skill"),
		c.Query("mode"),
		limit, offset,
	)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(users, limit, offset))
}

// SetSkills обрабатывает PUT /api/profile/skills/:kind (kind = teach | learn).
func (h *ProfileHandler) SetSkills(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.SetSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	skillIDs := make([]uuid.UUID, 0, len(req.SkillIDs))
	for _, raw := range req.SkillIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор навыка: " + raw})
			return
		}
		skillIDs = append(skillIDs, id)
	}

	if err := h.profiles.SetSkills(c.Request.Context(), userID, c.Param("kind"), skillIDs); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSkills обрабатывает GET /api/users/:id/skills.
func (h *ProfileHandler) ListSkills(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невалидный идентификатор"})
		return
	}

	ctx := c.Request.Context()
	teach, err := h.profiles.ListSkills(ctx, id, models.UserSkillTeach)
	if err != nil {
		_ = c.Error(err)
		return
	}
	learn, err := h.profiles.ListSkills(ctx, id, models.UserSkillLearn)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if teach == nil {
		teach = []models.Skill{}
	}
	if learn == nil {
		learn = []models.Skill{}
	}

	c.JSON(http.StatusOK, dto.UserSkillsResponse{Teach: teach, Learn: learn})
}
