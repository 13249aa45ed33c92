package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/validation"
)

// SkillStore описывает зависимости сервиса каталога навыков.
type SkillStore interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	GetBySlug(ctx context.Context, slug string) (*models.Skill, error)
	List(ctx context.Context, query string, limit, offset int) ([]models.Skill, error)
}

// SkillService отвечает за каталог навыков.
type SkillService struct {
	repo SkillStore
}

// NewSkillService создаёт сервис каталога.
func NewSkillService(repo SkillStore) *SkillService {
	return &SkillService{repo: repo}
}

// CreateSkillInput содержит данные нового навыка.
type CreateSkillInput struct {
	Name            string
	Description     *string
	ExperienceYears *int
}

// Create добавляет навык в каталог. Slug генерируется из названия,
// конфликт уникальности разрешает репозиторий суффиксом.
func (s *SkillService) Create(ctx context.Context, in CreateSkillInput) (*models.Skill, error) {
	if err := validation.ValidateSkillName(in.Name); err != nil {
		return nil, fmt.Errorf("skill service: %w", err)
	}
	if in.ExperienceYears != nil && (*in.ExperienceYears < 0 || *in.ExperienceYears > 80) {
		return nil, fmt.Errorf("skill service: недопустимый стаж")
	}

	skill := &models.Skill{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		ExperienceYears: in.ExperienceYears,
	}
	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Get возвращает навык по идентификатору.
func (s *SkillService) Get(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug возвращает навык по slug.
func (s *SkillService) GetBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List возвращает каталог навыков с необязательным поиском по подстроке.
func (s *SkillService) List(ctx context.Context, query string, limit, offset int) ([]models.Skill, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, strings.TrimSpace(query), limit, offset)
}
