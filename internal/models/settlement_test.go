package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Эталонный сценарий: отправитель 20/0, получатель 0/0, цена 5, бонус 10.
// После hold отправитель 15/5; после расчёта отправитель 20/0, получатель 15/0.
func TestSettlementPolicy_ReferenceScenario(t *testing.T) {
	policy := SettlementPolicy{Bonus: 10}

	res := policy.Apply(15, 5, 0, 5)

	assert.Equal(t, 5, res.Transfer)
	assert.False(t, res.Clamped)
	assert.False(t, res.Floored)
	assert.Equal(t, 20, res.SenderAvailable)
	assert.Equal(t, 0, res.SenderHeld)
	assert.Equal(t, 15, res.ReceiverAvailable)
}

func TestSettlementPolicy_ClampsToHeld(t *testing.T) {
	policy := SettlementPolicy{Bonus: 10}

	// Запрошено 8, но в held только 5 — перевод урезается.
	res := policy.Apply(15, 5, 0, 8)

	assert.Equal(t, 5, res.Transfer)
	assert.True(t, res.Clamped)
	assert.Equal(t, 0, res.SenderHeld)
	assert.Equal(t, 15, res.ReceiverAvailable)
}

func TestSettlementPolicy_FloorsSenderAvailableAtZero(t *testing.T) {
	policy := SettlementPolicy{Bonus: 0}

	// Без бонуса available отправителя ушёл бы в минус.
	res := policy.Apply(2, 5, 0, 5)

	assert.Equal(t, 5, res.Transfer)
	assert.True(t, res.Floored)
	assert.Equal(t, 0, res.SenderAvailable)
	assert.Equal(t, 0, res.SenderHeld)
	assert.Equal(t, 5, res.ReceiverAvailable)
}

func TestSettlementPolicy_NegativeAmount(t *testing.T) {
	policy := SettlementPolicy{Bonus: 10}

	res := policy.Apply(15, 5, 0, -3)

	assert.Equal(t, 0, res.Transfer)
	assert.Equal(t, 5, res.SenderHeld)
	assert.Equal(t, 25, res.SenderAvailable)
	assert.Equal(t, 10, res.ReceiverAvailable)
}

// Баллы не создаются и не исчезают, кроме оговорённой эмиссии бонусов.
func TestSettlementPolicy_ConservesPointsUpToBonus(t *testing.T) {
	policy := SettlementPolicy{Bonus: 10}

	senderAvail, senderHeld, recvAvail, amount := 15, 5, 7, 5
	before := senderAvail + senderHeld + recvAvail

	res := policy.Apply(senderAvail, senderHeld, recvAvail, amount)
	after := res.SenderAvailable + res.SenderHeld + res.ReceiverAvailable

	// Отправитель отдаёт transfer из available (он уже ушёл из held при hold),
	// обе стороны получают бонус: итог = before - transfer + 2*bonus.
	assert.Equal(t, before-res.Transfer+2*policy.Bonus, after)
}
