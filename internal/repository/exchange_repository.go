package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository/common"
)

var (
	// ErrExchangeNotFound возвращается, когда запрос на обмен не найден.
	ErrExchangeNotFound = errors.New("exchange not found")
	// ErrForbidden возвращается, когда действие выполняет не та сторона обмена.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState возвращается при действии над обменом в несовместимом
	// (например, терминальном) статусе.
	ErrInvalidState = errors.New("invalid exchange state")
)

// ExchangeRepository отвечает за таблицу exchanges и реализует стейт-машину
// обмена. Статус обмена служит точкой сериализации для переходов
// «ровно один раз»: строка обмена берётся FOR UPDATE, проверка статуса и его
// запись происходят в одной транзакции с изменением балансов, поэтому два
// конкурентных decline (или два завершающих confirm) не пройдут guard оба.
type ExchangeRepository struct {
	db     *sqlx.DB
	ledger *LedgerRepository
}

// NewExchangeRepository создаёт репозиторий обменов.
func NewExchangeRepository(db *sqlx.DB, ledger *LedgerRepository) *ExchangeRepository {
	return &ExchangeRepository{db: db, ledger: ledger}
}

const exchangeColumns = `id, sender_id, receiver_id, skill_id, price, message, status,
	sender_confirmed, receiver_confirmed, sender_confirmed_at, receiver_confirmed_at, created_at`

// lockForUpdate берёт эксклюзивную блокировку строки обмена.
func (r *ExchangeRepository) lockForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.ExchangeRequest, error) {
	var ex models.ExchangeRequest
	query := fmt.Sprintf(`SELECT %s FROM exchanges WHERE id = $1 FOR UPDATE`, exchangeColumns)
	if err := tx.GetContext(ctx, &ex, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExchangeNotFound
		}
		return nil, fmt.Errorf("exchange repository: lock %w", err)
	}
	return &ex, nil
}

// Create вставляет запрос на обмен и замораживает price баллов отправителя
// в одной транзакции: при нехватке баллов не остаётся ни записи, ни hold.
// Запись вставляется до hold, чтобы журнал мог сослаться на id обмена;
// откат транзакции убирает обе стороны эффекта.
func (r *ExchangeRepository) Create(ctx context.Context, ex *models.ExchangeRequest) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO exchanges (sender_id, receiver_id, skill_id, price, message, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, query,
			ex.SenderID, ex.ReceiverID, ex.SkillID, ex.Price, ex.Message, models.ExchangeStatusPending,
		).Scan(&ex.ID, &ex.CreatedAt); err != nil {
			return fmt.Errorf("exchange repository: create %w", err)
		}
		ex.Status = models.ExchangeStatusPending

		return r.ledger.Hold(ctx, tx, ex.SenderID, ex.Price, &ex.ID)
	})
}

// GetByID возвращает запрос на обмен по идентификатору.
func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExchangeRequest, error) {
	return common.GetByID[models.ExchangeRequest](ctx, r.db, "exchanges", id, ErrExchangeNotFound)
}

// Accept переводит обмен в accepted. Только получатель, только из pending.
// Балансы не затрагиваются: accept нужен для сигнализации в UI и не
// разблокирует расчёт.
func (r *ExchangeRepository) Accept(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	var result *models.ExchangeRequest
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		ex, err := r.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if ex.ReceiverID != actorID {
			return ErrForbidden
		}
		if ex.Status != models.ExchangeStatusPending {
			return ErrInvalidState
		}

		if _, err := tx.ExecContext(ctx, `UPDATE exchanges SET status = $2 WHERE id = $1`, id, models.ExchangeStatusAccepted); err != nil {
			return fmt.Errorf("exchange repository: accept %w", err)
		}
		ex.Status = models.ExchangeStatusAccepted
		result = ex
		return nil
	})
	return result, err
}

// Decline отклоняет обмен и возвращает замороженные баллы отправителю.
// Проверка статуса и возврат — одна транзакция: повторный decline увидит
// терминальный статус и завершится ErrInvalidState, не тронув балансы.
func (r *ExchangeRepository) Decline(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	var result *models.ExchangeRequest
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		ex, err := r.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if ex.ReceiverID != actorID {
			return ErrForbidden
		}
		if ex.Status != models.ExchangeStatusPending && ex.Status != models.ExchangeStatusAccepted {
			return ErrInvalidState
		}

		if err := r.ledger.Refund(ctx, tx, ex.SenderID, ex.Price, &ex.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE exchanges SET status = $2 WHERE id = $1`, id, models.ExchangeStatusDeclined); err != nil {
			return fmt.Errorf("exchange repository: decline %w", err)
		}
		ex.Status = models.ExchangeStatusDeclined
		result = ex
		return nil
	})
	return result, err
}

// Confirm записывает подтверждение стороны и, если обе стороны подтвердили,
// проводит расчёт и переводит обмен в completed — всё в одной транзакции.
// Повторное подтверждение той же стороной лишь обновляет отметку времени.
// Возвращает true, если завершение произошло именно в этом вызове.
func (r *ExchangeRepository) Confirm(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, bool, error) {
	var (
		result    *models.ExchangeRequest
		completed bool
	)
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		ex, err := r.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		switch actorID {
		case ex.SenderID:
			ex.SenderConfirmed = true
			ex.SenderConfirmedAt = &now
		case ex.ReceiverID:
			ex.ReceiverConfirmed = true
			ex.ReceiverConfirmedAt = &now
		default:
			return ErrForbidden
		}

		query := `
			UPDATE exchanges
			SET sender_confirmed = $2, receiver_confirmed = $3,
				sender_confirmed_at = $4, receiver_confirmed_at = $5
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, query, id,
			ex.SenderConfirmed, ex.ReceiverConfirmed,
			ex.SenderConfirmedAt, ex.ReceiverConfirmedAt,
		); err != nil {
			return fmt.Errorf("exchange repository: confirm %w", err)
		}

		if !models.ReadyToComplete(ex.Status, ex.SenderConfirmed, ex.ReceiverConfirmed) {
			result = ex
			return nil
		}

		if _, err := r.ledger.Settle(ctx, tx, ex.SenderID, ex.ReceiverID, ex.Price, &ex.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE exchanges SET status = $2 WHERE id = $1`, id, models.ExchangeStatusCompleted); err != nil {
			return fmt.Errorf("exchange repository: complete %w", err)
		}
		ex.Status = models.ExchangeStatusCompleted
		completed = true
		result = ex
		return nil
	})
	return result, completed, err
}

// ListByUser возвращает обмены, где пользователь отправитель или получатель.
func (r *ExchangeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ExchangeRequest, error) {
	var exchanges []models.ExchangeRequest
	query := fmt.Sprintf(`
		SELECT %s FROM exchanges
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, exchangeColumns)
	if err := r.db.SelectContext(ctx, &exchanges, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("exchange repository: list by user %w", err)
	}
	return exchanges, nil
}

// ListIncoming возвращает входящие pending запросы получателя.
func (r *ExchangeRepository) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.ExchangeRequest, error) {
	var exchanges []models.ExchangeRequest
	query := fmt.Sprintf(`
		SELECT %s FROM exchanges
		WHERE receiver_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, exchangeColumns)
	if err := r.db.SelectContext(ctx, &exchanges, query, receiverID, models.ExchangeStatusPending); err != nil {
		return nil, fmt.Errorf("exchange repository: list incoming %w", err)
	}
	return exchanges, nil
}
