package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReadyToComplete(t *testing.T) {
	tests := []struct {
		name              string
		status            string
		senderConfirmed   bool
		receiverConfirmed bool
		want              bool
	}{
		{"обе стороны подтвердили в pending", ExchangeStatusPending, true, true, true},
		{"обе стороны подтвердили в accepted", ExchangeStatusAccepted, true, true, true},
		{"только отправитель", ExchangeStatusAccepted, true, false, false},
		{"только получатель", ExchangeStatusPending, false, true, false},
		{"никто не подтвердил", ExchangeStatusPending, false, false, false},
		{"уже завершён", ExchangeStatusCompleted, true, true, false},
		{"отклонён", ExchangeStatusDeclined, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadyToComplete(tt.status, tt.senderConfirmed, tt.receiverConfirmed)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Повторный вызов после завершения всегда возвращает false: расчёт
// не может сработать дважды.
func TestReadyToComplete_IdempotentAfterCompletion(t *testing.T) {
	assert.True(t, ReadyToComplete(ExchangeStatusPending, true, true))
	for i := 0; i < 3; i++ {
		assert.False(t, ReadyToComplete(ExchangeStatusCompleted, true, true))
	}
}

func TestExchangeRequest_IsParty(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	ex := &ExchangeRequest{SenderID: sender, ReceiverID: receiver}

	assert.True(t, ex.IsParty(sender))
	assert.True(t, ex.IsParty(receiver))
	assert.False(t, ex.IsParty(uuid.New()))
}

func TestExchangeRequest_IsTerminal(t *testing.T) {
	assert.False(t, (&ExchangeRequest{Status: ExchangeStatusPending}).IsTerminal())
	assert.False(t, (&ExchangeRequest{Status: ExchangeStatusAccepted}).IsTerminal())
	assert.True(t, (&ExchangeRequest{Status: ExchangeStatusDeclined}).IsTerminal())
	assert.True(t, (&ExchangeRequest{Status: ExchangeStatusCompleted}).IsTerminal())
}
