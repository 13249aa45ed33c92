package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/skillswap-backend/internal/logger"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository/common"
)

var (
	// ErrInsufficientFunds возвращается, когда available меньше суммы hold.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConsistency сигнализирует о нарушении инварианта леджера.
	// Такая ошибка не ожидается при корректной последовательности операций:
	// транзакция откатывается, инцидент логируется.
	ErrConsistency = errors.New("ledger consistency violation")
)

// LedgerRepository отвечает за балансы баллов (available_points/held_points
// на записи пользователя) и журнал point_transactions.
//
// Примитивы Hold/Refund/Settle работают внутри переданной транзакции и берут
// эксклюзивную блокировку строки каждого затронутого пользователя
// (SELECT ... FOR UPDATE) — проверка и изменение баланса атомарны по
// отношению к любым конкурентным операциям над тем же пользователем.
type LedgerRepository struct {
	db     *sqlx.DB
	policy models.SettlementPolicy
}

// NewLedgerRepository создаёт репозиторий леджера.
func NewLedgerRepository(db *sqlx.DB, policy models.SettlementPolicy) *LedgerRepository {
	return &LedgerRepository{db: db, policy: policy}
}

type balanceRow struct {
	ID        uuid.UUID `db:"id"`
	Available int       `db:"available_points"`
	Held      int       `db:"held_points"`
}

// lockBalance берёт эксклюзивную блокировку строки пользователя и возвращает
// текущий баланс. Блокировка удерживается до конца транзакции.
func (r *LedgerRepository) lockBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*balanceRow, error) {
	var row balanceRow
	query := `SELECT id, available_points, held_points FROM users WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ledger repository: lock balance %w", err)
	}
	return &row, nil
}

// lockBalancePair блокирует строки обоих пользователей в фиксированном
// глобальном порядке (по возрастанию UUID), чтобы конкурентные расчёты по
// пересекающимся парам пользователей не взаимоблокировались.
func (r *LedgerRepository) lockBalancePair(ctx context.Context, tx *sqlx.Tx, first, second uuid.UUID) (*balanceRow, *balanceRow, error) {
	a, b := first, second
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	rowA, err := r.lockBalance(ctx, tx, a)
	if err != nil {
		return nil, nil, err
	}
	rowB, err := r.lockBalance(ctx, tx, b)
	if err != nil {
		return nil, nil, err
	}

	if rowA.ID == first {
		return rowA, rowB, nil
	}
	return rowB, rowA, nil
}

func (r *LedgerRepository) updateBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, available, held int) error {
	query := `UPDATE users SET available_points = $2, held_points = $3, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, userID, available, held); err != nil {
		return fmt.Errorf("ledger repository: update balance %w", err)
	}
	return nil
}

// journal добавляет запись в журнал движения баллов в той же транзакции.
func (r *LedgerRepository) journal(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, exchangeID *uuid.UUID, txType string, amount int, description string) error {
	query := `
		INSERT INTO point_transactions (user_id, exchange_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, query, userID, exchangeID, txType, amount, description); err != nil {
		return fmt.Errorf("ledger repository: journal %w", err)
	}
	return nil
}

// Hold замораживает amount баллов отправителя: available -= amount,
// held += amount. При amount == 0 успех без обращения к леджеру.
// Возвращает ErrInsufficientFunds без изменений, если available < amount.
func (r *LedgerRepository) Hold(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, exchangeID *uuid.UUID) error {
	if amount < 0 {
		return fmt.Errorf("ledger repository: hold: отрицательная сумма %d: %w", amount, ErrConsistency)
	}
	if amount == 0 {
		return nil
	}

	row, err := r.lockBalance(ctx, tx, userID)
	if err != nil {
		return err
	}

	if row.Available < amount {
		return ErrInsufficientFunds
	}

	if err := r.updateBalance(ctx, tx, userID, row.Available-amount, row.Held+amount); err != nil {
		return err
	}

	return r.journal(ctx, tx, userID, exchangeID, models.PointTxHold, amount, "Заморозка баллов под запрос на обмен")
}

// Refund возвращает amount баллов из held в available отправителя.
// Вызывается не более одного раза на обмен — это гарантирует стейт-машина
// обмена (переход в declined в той же транзакции). Уход held в минус означает
// ошибку программирования, а не пользовательскую ошибку.
func (r *LedgerRepository) Refund(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, exchangeID *uuid.UUID) error {
	if amount == 0 {
		return nil
	}

	row, err := r.lockBalance(ctx, tx, userID)
	if err != nil {
		return err
	}

	if row.Held < amount {
		return fmt.Errorf("ledger repository: refund %d при held %d у %s: %w", amount, row.Held, userID, ErrConsistency)
	}

	if err := r.updateBalance(ctx, tx, userID, row.Available+amount, row.Held-amount); err != nil {
		return err
	}

	return r.journal(ctx, tx, userID, exchangeID, models.PointTxRefund, amount, "Возврат баллов за отклонённый обмен")
}

// Settle проводит расчёт завершённого обмена: переводит замороженную сумму
// получателю и начисляет бонус обеим сторонам по политике расчёта. Блокирует
// строки обоих пользователей в каноническом порядке. Перевод урезается до
// фактического held (защита от дрейфа) — урезание логируется и попадает
// в метрики, это не тихое проглатывание ошибки.
func (r *LedgerRepository) Settle(ctx context.Context, tx *sqlx.Tx, senderID, receiverID uuid.UUID, amount int, exchangeID *uuid.UUID) (models.SettlementResult, error) {
	sender, receiver, err := r.lockBalancePair(ctx, tx, senderID, receiverID)
	if err != nil {
		return models.SettlementResult{}, err
	}

	res := r.policy.Apply(sender.Available, sender.Held, receiver.Available, amount)

	if res.Clamped {
		metrics.SettlementClampsTotal.Inc()
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"sender":    senderID,
				"requested": amount,
				"held":      sender.Held,
			}).Warn("settle: сумма расчёта урезана до фактического held")
		}
	}
	if res.Floored && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"sender":   senderID,
			"transfer": res.Transfer,
			"bonus":    r.policy.Bonus,
		}).Warn("settle: available отправителя упёрся в ноль")
	}

	if err := r.updateBalance(ctx, tx, senderID, res.SenderAvailable, res.SenderHeld); err != nil {
		return res, err
	}
	if err := r.updateBalance(ctx, tx, receiverID, res.ReceiverAvailable, receiver.Held); err != nil {
		return res, err
	}

	if err := r.journal(ctx, tx, senderID, exchangeID, models.PointTxSettleDebit, res.Transfer, "Списание за завершённый обмен"); err != nil {
		return res, err
	}
	if err := r.journal(ctx, tx, receiverID, exchangeID, models.PointTxSettleCredit, res.Transfer, "Начисление за завершённый обмен"); err != nil {
		return res, err
	}
	if r.policy.Bonus > 0 {
		if err := r.journal(ctx, tx, senderID, exchangeID, models.PointTxBonus, r.policy.Bonus, "Бонус за завершённый обмен"); err != nil {
			return res, err
		}
		if err := r.journal(ctx, tx, receiverID, exchangeID, models.PointTxBonus, r.policy.Bonus, "Бонус за завершённый обмен"); err != nil {
			return res, err
		}
	}

	return res, nil
}

// Deposit начисляет available баллы пользователю (приветственные баллы,
// сидер). Выполняется в собственной транзакции.
func (r *LedgerRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("ledger repository: deposit: сумма должна быть положительной")
	}

	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		row, err := r.lockBalance(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := r.updateBalance(ctx, tx, userID, row.Available+amount, row.Held); err != nil {
			return err
		}
		return r.journal(ctx, tx, userID, nil, models.PointTxDeposit, amount, description)
	})
}

// GetBalance возвращает текущий баланс пользователя.
func (r *LedgerRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	var balance models.UserBalance
	query := `SELECT id, available_points, held_points FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &balance, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ledger repository: get balance %w", err)
	}
	return &balance, nil
}

// ListTransactions возвращает историю движения баллов пользователя.
func (r *LedgerRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointTransaction, error) {
	var transactions []models.PointTransaction
	query := `
		SELECT id, user_id, exchange_id, type, amount, description, created_at
		FROM point_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("ledger repository: list transactions %w", err)
	}
	return transactions, nil
}
