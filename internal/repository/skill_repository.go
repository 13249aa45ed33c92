package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository/common"
)

// ErrSkillNotFound возвращается, когда навык не найден в каталоге.
var ErrSkillNotFound = errors.New("skill not found")

// SkillRepository отвечает за каталог навыков.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository создаёт экземпляр репозитория.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create добавляет навык в каталог. Slug генерируется из имени; при
// коллизии добавляется числовой суффикс: go, go-2, go-3...
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	base := models.Slugify(skill.Name)
	slug := base

	for i := 2; ; i++ {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM skills WHERE slug = $1)`, slug); err != nil {
			return fmt.Errorf("skill repository: check slug %w", err)
		}
		if !exists {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	query := `
		INSERT INTO skills (slug, name, description, experience_years)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		slug, skill.Name, skill.Description, skill.ExperienceYears,
	).Scan(&skill.ID, &skill.CreatedAt); err != nil {
		return fmt.Errorf("skill repository: create %w", err)
	}
	skill.Slug = slug

	return nil
}

// GetByID возвращает навык по идентификатору.
func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return common.GetByID[models.Skill](ctx, r.db, "skills", id, ErrSkillNotFound)
}

// GetBySlug возвращает навык по slug.
func (r *SkillRepository) GetBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	return common.GetByField[models.Skill](ctx, r.db, "skills", "slug", slug, ErrSkillNotFound)
}

// List возвращает навыки каталога, опционально фильтруя по подстроке имени.
func (r *SkillRepository) List(ctx context.Context, query string, limit, offset int) ([]models.Skill, error) {
	var skills []models.Skill
	sqlQuery := `
		SELECT id, slug, name, description, experience_years, created_at
		FROM skills
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &skills, sqlQuery, query, limit, offset); err != nil {
		return nil, fmt.Errorf("skill repository: list %w", err)
	}
	return skills, nil
}
