package dto

import (
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// AuthResponse представляет ответ на регистрацию и вход.
type AuthResponse struct {
	User      *models.User       `json:"user"`
	TokenPair *service.TokenPair `json:"tokens"`
}

// BalanceResponse представляет баланс пользователя.
type BalanceResponse struct {
	Available int `json:"available"`
	Held      int `json:"held"`
}

// ExchangeResponse представляет обмен с признаком завершения в этом вызове.
type ExchangeResponse struct {
	*models.ExchangeRequest
	Completed bool `json:"completed,omitempty"`
}

// ListResponse - обёртка для списков с пагинацией.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse создаёт обёртку списка.
func NewListResponse[T any](items []T, limit, offset int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Limit: limit, Offset: offset}
}

// UserSkillsResponse представляет навыки пользователя по видам.
type UserSkillsResponse struct {
	Teach []models.Skill `json:"teach"`
	Learn []models.Skill `json:"learn"`
}
