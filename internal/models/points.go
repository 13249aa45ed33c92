package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы операций в журнале баллов.
const (
	PointTxDeposit      = "deposit"
	PointTxHold         = "hold"
	PointTxRefund       = "refund"
	PointTxSettleDebit  = "settle_debit"
	PointTxSettleCredit = "settle_credit"
	PointTxBonus        = "bonus"
)

// PointTransaction — запись журнала движения баллов. Журнал ведётся
// в той же транзакции, что и изменение баланса.
type PointTransaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	ExchangeID  *uuid.UUID `db:"exchange_id" json:"exchange_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Amount      int        `db:"amount" json:"amount"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
