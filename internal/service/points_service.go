package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/models"
)

// PointsStore описывает зависимости сервиса баллов.
type PointsStore interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointTransaction, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount int, description string) error
}

// PointsService отвечает за чтение балансов и истории операций.
// Изменения балансов происходят только через операции леджера.
type PointsService struct {
	repo PointsStore
}

// NewPointsService создаёт сервис баллов.
func NewPointsService(repo PointsStore) *PointsService {
	return &PointsService{repo: repo}
}

// GetBalance возвращает баланс пользователя.
func (s *PointsService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	return s.repo.GetBalance(ctx, userID)
}

// ListTransactions возвращает историю операций пользователя.
func (s *PointsService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

// AdminDeposit начисляет баллы пользователю. Доступно только администратору.
func (s *PointsService) AdminDeposit(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("points service: сумма начисления должна быть положительной")
	}
	if description == "" {
		description = "Начисление администратором"
	}
	return s.repo.Deposit(ctx, userID, amount, description)
}
