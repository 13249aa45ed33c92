package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/validation"
)

// ProfileStore описывает зависимости сервиса профилей.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Search(ctx context.Context, selfID uuid.UUID, query, skill, mode string, limit, offset int) ([]models.PublicUser, error)
	SetSkills(ctx context.Context, userID uuid.UUID, kind string, skillIDs []uuid.UUID) error
	ListSkills(ctx context.Context, userID uuid.UUID, kind string) ([]models.Skill, error)
}

// ProfileService отвечает за профили пользователей, их навыки и поиск партнёров.
type ProfileService struct {
	repo ProfileStore
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileStore) *ProfileService {
	return &ProfileService{repo: repo}
}

// UpdateProfileInput содержит редактируемые поля профиля.
type UpdateProfileInput struct {
	FullName   *string
	University *string
	Bio        *string
}

// Get возвращает пользователя по идентификатору.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername возвращает пользователя по username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Update обновляет профиль пользователя. Передаются только изменяемые поля,
// nil оставляет прежнее значение.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if err := validation.ValidateFullName(*in.FullName); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
		user.FullName = in.FullName
	}
	if in.University != nil {
		if err := validation.ValidateUniversity(in.University); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
		user.University = in.University
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(in.Bio); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
		user.Bio = in.Bio
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search ищет потенциальных партнёров по имени и/или навыку.
// mode: teach — те, кто учит навыку; learn — те, кто хочет ему научиться.
func (s *ProfileService) Search(ctx context.Context, selfID uuid.UUID, query, skill, mode string, limit, offset int) ([]models.PublicUser, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if mode != "" {
		if _, ok := models.ValidUserSkillKinds[mode]; !ok {
			return nil, fmt.Errorf("profile service: недопустимый режим поиска %q", mode)
		}
	}
	return s.repo.Search(ctx, selfID, query, skill, mode, limit, offset)
}

// SetSkills заменяет навыки пользователя указанного вида.
func (s *ProfileService) SetSkills(ctx context.Context, userID uuid.UUID, kind string, skillIDs []uuid.UUID) error {
	if _, ok := models.ValidUserSkillKinds[kind]; !ok {
		return fmt.Errorf("profile service: недопустимый вид навыка %q", kind)
	}
	if len(skillIDs) > validation.MaxSkillsCount {
		return fmt.Errorf("profile service: количество навыков не может превышать %d", validation.MaxSkillsCount)
	}
	return s.repo.SetSkills(ctx, userID, kind, skillIDs)
}

// ListSkills возвращает навыки пользователя указанного вида.
func (s *ProfileService) ListSkills(ctx context.Context, userID uuid.UUID, kind string) ([]models.Skill, error) {
	if _, ok := models.ValidUserSkillKinds[kind]; !ok {
		return nil, fmt.Errorf("profile service: недопустимый вид навыка %q", kind)
	}
	return s.repo.ListSkills(ctx, userID, kind)
}
