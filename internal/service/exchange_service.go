package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/skillswap-backend/internal/goroutine"
	"github.com/skillswap/skillswap-backend/internal/logger"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository"
	"github.com/skillswap/skillswap-backend/internal/validation"
)

// ErrSelfExchange возвращается при попытке отправить запрос самому себе.
var ErrSelfExchange = errors.New("нельзя отправить запрос на обмен самому себе")

// ExchangeStore описывает зависимости сервиса от хранилища обменов.
// Реализация обязана выполнять проверку статуса и изменение балансов
// в одной транзакции (см. repository.ExchangeRepository).
type ExchangeStore interface {
	Create(ctx context.Context, ex *models.ExchangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExchangeRequest, error)
	Accept(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error)
	Decline(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error)
	Confirm(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ExchangeRequest, error)
	ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.ExchangeRequest, error)
}

// UserReader возвращает пользователей по идентификатору.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SkillReader возвращает навыки по идентификатору.
type SkillReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
}

// ExchangeNotifier доставляет событие пользователю (websocket + БД).
type ExchangeNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// ExchangeService реализует бизнес-логику жизненного цикла обмена поверх
// транзакционного хранилища и рассылает события сторонам.
type ExchangeService struct {
	exchanges ExchangeStore
	users     UserReader
	skills    SkillReader
	hub       ExchangeNotifier
}

// NewExchangeService создаёт сервис обменов.
func NewExchangeService(exchanges ExchangeStore, users UserReader, skills SkillReader) *ExchangeService {
	return &ExchangeService{exchanges: exchanges, users: users, skills: skills}
}

// SetHub подключает рассылку событий (опционально).
func (s *ExchangeService) SetHub(hub ExchangeNotifier) {
	s.hub = hub
}

// CreateExchangeInput содержит данные нового запроса на обмен.
type CreateExchangeInput struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	SkillID    uuid.UUID
	Price      int
	Message    *string
}

// Create создаёт запрос на обмен. Баллы отправителя замораживаются в той же
// транзакции, что и вставка записи: при нехватке баллов запрос не создаётся.
func (s *ExchangeService) Create(ctx context.Context, in CreateExchangeInput) (*models.ExchangeRequest, error) {
	if in.SenderID == in.ReceiverID {
		return nil, ErrSelfExchange
	}
	if err := validation.ValidateExchangePrice(in.Price); err != nil {
		return nil, fmt.Errorf("exchange service: %w", err)
	}
	if err := validation.ValidateExchangeMessage(in.Message); err != nil {
		return nil, fmt.Errorf("exchange service: %w", err)
	}

	if _, err := s.users.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}
	if _, err := s.skills.GetByID(ctx, in.SkillID); err != nil {
		return nil, err
	}

	ex := &models.ExchangeRequest{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		SkillID:    in.SkillID,
		Price:      in.Price,
		Message:    in.Message,
	}

	if err := s.exchanges.Create(ctx, ex); err != nil {
		return nil, err
	}

	metrics.ExchangesTotal.WithLabelValues("created").Inc()
	s.notify(ex.ReceiverID, models.EventExchangeRequested, ex)

	return ex, nil
}

// Accept принимает запрос. Разрешено только получателю и только из pending.
func (s *ExchangeService) Accept(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	ex, err := s.exchanges.Accept(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	metrics.ExchangesTotal.WithLabelValues("accepted").Inc()
	s.notify(ex.SenderID, models.EventExchangeAccepted, ex)

	return ex, nil
}

// Decline отклоняет запрос и возвращает баллы отправителю.
func (s *ExchangeService) Decline(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	ex, err := s.exchanges.Decline(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	metrics.ExchangesTotal.WithLabelValues("declined").Inc()
	s.notify(ex.SenderID, models.EventExchangeDeclined, ex)

	return ex, nil
}

// Confirm фиксирует подтверждение стороны; при двойном подтверждении обмен
// завершается, проводится расчёт и обе стороны получают событие о завершении.
// Возвращает true, если завершение произошло в этом вызове.
func (s *ExchangeService) Confirm(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, bool, error) {
	ex, completed, err := s.exchanges.Confirm(ctx, id, actorID)
	if err != nil {
		return nil, false, err
	}

	if completed {
		metrics.ExchangesTotal.WithLabelValues("completed").Inc()
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"exchange": ex.ID,
				"sender":   ex.SenderID,
				"receiver": ex.ReceiverID,
				"price":    ex.Price,
			}).Info("обмен завершён, баллы начислены")
		}
		s.notify(ex.SenderID, models.EventExchangeCompleted, ex)
		s.notify(ex.ReceiverID, models.EventExchangeCompleted, ex)
	}

	return ex, completed, nil
}

// Get возвращает обмен. Доступен только его сторонам.
func (s *ExchangeService) Get(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	ex, err := s.exchanges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ex.IsParty(actorID) {
		return nil, repository.ErrForbidden
	}
	return ex, nil
}

// ListMy возвращает обмены пользователя (как отправителя и как получателя).
func (s *ExchangeService) ListMy(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ExchangeRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.exchanges.ListByUser(ctx, userID, limit, offset)
}

// ListIncoming возвращает входящие pending запросы пользователя.
func (s *ExchangeService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.ExchangeRequest, error) {
	return s.exchanges.ListIncoming(ctx, userID)
}

// notify асинхронно доставляет событие пользователю; сбой доставки
// не влияет на результат операции.
func (s *ExchangeService) notify(userID uuid.UUID, event string, ex *models.ExchangeRequest) {
	if s.hub == nil {
		return
	}
	hub := s.hub
	goroutine.SafeGo(func() {
		if err := hub.BroadcastToUser(userID, event, ex); err != nil && logger.Log != nil {
			logger.Log.WithError(err).Warn("не удалось доставить событие обмена")
		}
	})
}
