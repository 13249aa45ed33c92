package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы запроса на обмен.
// pending -> accepted | declined, pending/accepted -> completed.
// declined и completed терминальны, переходов из них нет.
const (
	ExchangeStatusPending   = "pending"
	ExchangeStatusAccepted  = "accepted"
	ExchangeStatusDeclined  = "declined"
	ExchangeStatusCompleted = "completed"
)

// ExchangeRequest описывает запрос на обмен навыками между двумя пользователями.
// При создании price баллов списывается из available отправителя в held и
// остаётся там до возврата (decline) либо расчёта (completed) — ровно один раз.
type ExchangeRequest struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	SenderID            uuid.UUID  `db:"sender_id" json:"sender_id"`
	ReceiverID          uuid.UUID  `db:"receiver_id" json:"receiver_id"`
	SkillID             uuid.UUID  `db:"skill_id" json:"skill_id"`
	Price               int        `db:"price" json:"price"`
	Message             *string    `db:"message" json:"message,omitempty"`
	Status              string     `db:"status" json:"status"`
	SenderConfirmed     bool       `db:"sender_confirmed" json:"sender_confirmed"`
	ReceiverConfirmed   bool       `db:"receiver_confirmed" json:"receiver_confirmed"`
	SenderConfirmedAt   *time.Time `db:"sender_confirmed_at" json:"sender_confirmed_at,omitempty"`
	ReceiverConfirmedAt *time.Time `db:"receiver_confirmed_at" json:"receiver_confirmed_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// IsParty сообщает, является ли пользователь стороной обмена.
func (e *ExchangeRequest) IsParty(userID uuid.UUID) bool {
	return e.SenderID == userID || e.ReceiverID == userID
}

// IsTerminal сообщает, находится ли обмен в терминальном статусе.
func (e *ExchangeRequest) IsTerminal() bool {
	return e.Status == ExchangeStatusDeclined || e.Status == ExchangeStatusCompleted
}

// ReadyToComplete решает, готов ли обмен к расчёту: обе стороны подтвердили
// и статус позволяет завершение. Чистая функция без побочных эффектов,
// безопасна для повторных вызовов: для уже завершённого обмена всегда false,
// поэтому расчёт срабатывает не более одного раза — статус переводится в
// completed атомарно с самим расчётом.
func ReadyToComplete(status string, senderConfirmed, receiverConfirmed bool) bool {
	if status == ExchangeStatusCompleted {
		return false
	}
	if !senderConfirmed || !receiverConfirmed {
		return false
	}
	return status == ExchangeStatusPending || status == ExchangeStatusAccepted
}
